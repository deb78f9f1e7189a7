package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/suiticket/v1/client"
	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/output"
	"github.com/suiticket/v1/client/core/session"
	"github.com/suiticket/v1/client/core/ticketing"
	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/client/core/wallet"
	logconfig "github.com/suiticket/v1/internal/config/log"
	eventbus "github.com/suiticket/v1/internal/core/infrastructure/event"
	infralog "github.com/suiticket/v1/internal/core/infrastructure/log"
	"github.com/suiticket/v1/pkg/interfaces/infrastructure/log"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	Profile      string // Profile名称
	Network      string // 本次调用使用的网络，不改变已保存的会话
	ConfigDir    string // 配置目录
	RegistryFile string // 注册表覆盖文件
	Keystore     string // keystore 文件
	OutputFormat string // 输出格式
	Workers      int    // 挂单并发物化数
	Silent       bool   // 静默模式
	Verbose      bool   // 详细模式
}

var (
	globalFlags GlobalFlags
	profileMgr  *config.ProfileManager
	formatter   *output.Formatter
	logger      log.Logger
	bus         *eventbus.EventBus
	sessions    *session.Store
)

// errActionFailed 动作未成功，详情已输出
var errActionFailed = errors.New("action failed")

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "ticketctl",
	Short: "票务市场命令行客户端",
	Long: `ticketctl - 链上票务市场的命令行客户端

- 注册用户与活动组织者
- 创建活动、购票、核销
- 在 Kiosk 中挂单、撤单、购买转售门票
- 查看转让策略与购买费用
- 以 HTTP 读接口对外提供查询

密钥保存在本地 keystore，格式与 sui.keystore 兼容。`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		profileMgr, err = config.NewProfileManager(globalFlags.ConfigDir)
		if err != nil {
			return fmt.Errorf("初始化配置: %w", err)
		}

		format, err := output.ParseFormat(globalFlags.OutputFormat)
		if err != nil {
			return err
		}
		formatter = output.NewFormatter(format, os.Stdout)
		formatter.SetSilent(globalFlags.Silent)

		level := "warn"
		if globalFlags.Verbose {
			level = "debug"
		}
		logger, err = infralog.New(logconfig.New(&logconfig.LogOptions{Level: level}))
		if err != nil {
			return fmt.Errorf("初始化日志: %w", err)
		}
		infralog.SetLogger(logger)

		bus = eventbus.New()
		fallback := config.Testnet
		if p, err := profileMgr.GetCurrentProfile(); err == nil {
			fallback = p.Network
		}
		sessions, err = session.NewStore(profileMgr.ConfigDir(), fallback, bus)
		if err != nil {
			return fmt.Errorf("加载会话: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute 执行根命令
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errActionFailed) {
			fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalFlags.Profile, "profile", "", "使用指定的Profile (默认按网络选择)")
	pf.StringVarP(&globalFlags.Network, "network", "n", "", "网络: mainnet|testnet|devnet (默认使用会话中的网络)")
	pf.StringVar(&globalFlags.ConfigDir, "config-dir", "", "配置目录 (默认: ~/.suiticket)")
	pf.StringVar(&globalFlags.RegistryFile, "registry", "", "注册表覆盖文件 (YAML)")
	pf.StringVar(&globalFlags.Keystore, "keystore", "", "keystore 文件 (默认: <config-dir>/sui.keystore)")
	pf.StringVarP(&globalFlags.OutputFormat, "output", "o", "table", "输出格式: json|pretty|table")
	pf.IntVar(&globalFlags.Workers, "workers", 4, "挂单并发物化数，1 为顺序执行")
	pf.BoolVar(&globalFlags.Silent, "silent", false, "静默模式 (仅输出错误)")
	pf.BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "详细日志")

	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(ticketCmd)
	rootCmd.AddCommand(kioskCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(feesCmd)
	rootCmd.AddCommand(registryCmd)
	rootCmd.AddCommand(serveCmd)
}

// currentSession 当前会话，--network 只影响本次调用
func currentSession() (session.Context, error) {
	sess := sessions.Current()
	if globalFlags.Network == "" {
		return sess, nil
	}
	env, err := config.ParseEnvironment(globalFlags.Network)
	if err != nil {
		return session.Context{}, err
	}
	return sess.WithEnv(env), nil
}

// profileFor 返回网络对应的 profile：--profile 优先，其次同名 profile，最后内置默认值
func profileFor(env config.Environment) (*config.Profile, error) {
	var p *config.Profile
	if globalFlags.Profile != "" {
		var err error
		if p, err = profileMgr.GetProfile(globalFlags.Profile); err != nil {
			return nil, fmt.Errorf("获取Profile: %w", err)
		}
	} else if existing, err := profileMgr.GetProfile(string(env)); err == nil && existing.Network == env {
		p = existing
	} else {
		p = config.DefaultProfile(env)
	}
	cp := *p
	if globalFlags.RegistryFile != "" {
		cp.RegistryFile = globalFlags.RegistryFile
	}
	return &cp, nil
}

func keystorePath(p *config.Profile) string {
	switch {
	case globalFlags.Keystore != "":
		return globalFlags.Keystore
	case p != nil && p.KeystorePath != "":
		return p.KeystorePath
	default:
		return filepath.Join(profileMgr.ConfigDir(), "sui.keystore")
	}
}

func openKeystore() (*wallet.Keystore, error) {
	sess, err := currentSession()
	if err != nil {
		return nil, err
	}
	p, err := profileFor(sess.Env)
	if err != nil {
		return nil, err
	}
	return wallet.OpenKeystore(keystorePath(p))
}

// app 一次命令调用装配出的组件
type app struct {
	sess   session.Context
	client *client.Client
	wallet *wallet.KeystoreWallet
}

// newApp 为当前会话装配客户端与钱包
func newApp() (*app, error) {
	sess, err := currentSession()
	if err != nil {
		return nil, err
	}
	p, err := profileFor(sess.Env)
	if err != nil {
		return nil, err
	}
	registry, err := p.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("加载注册表: %w", err)
	}
	t, err := client.NewTransport(p)
	if err != nil {
		return nil, err
	}

	ks, err := wallet.OpenKeystore(keystorePath(p))
	if err != nil {
		return nil, err
	}
	w, err := wallet.NewKeystoreWallet(ks, sess.Account,
		wallet.WithClient(sess.Env, t), wallet.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	c, err := client.NewWithTransport(t, sess.Env, client.Options{
		Registry: registry,
		Wallet:   w,
		Bus:      bus,
		Logger:   logger,
		Cache:    &transport.CacheConfig{},
		Workers:  globalFlags.Workers,
	})
	if err != nil {
		return nil, err
	}
	return &app{sess: sess, client: c, wallet: w}, nil
}

func (a *app) Close() {
	_ = a.client.Close()
}

// printResult 输出动作结果，未成功时返回 errActionFailed
func printResult(res ticketing.ActionResult) error {
	var data interface{} = res
	if formatter.Format() == output.FormatTable {
		data = output.ResultTable(res)
	}
	if err := formatter.Print(data); err != nil {
		return err
	}
	if !res.OK() {
		formatter.PrintError(errors.New(res.Status))
		return errActionFailed
	}
	formatter.PrintSuccess(res.Status)
	return nil
}

// printAs 表格模式下输出 table，其余格式输出原始数据
func printAs(data interface{}, table output.Tabular) error {
	if formatter.Format() == output.FormatTable && table != nil {
		return formatter.Print(table)
	}
	return formatter.Print(data)
}
