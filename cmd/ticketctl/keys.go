package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suiticket/v1/client/core/wallet"
)

// keysCmd 密钥管理命令
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "密钥管理",
	Long:  "管理本地 keystore 中的签名密钥，支持助记词导入与加密备份",
}

type keyTable struct {
	addresses []string
	active    string
}

func (t keyTable) TableRows() [][]string {
	rows := [][]string{{"", "地址"}}
	for _, addr := range t.addresses {
		mark := ""
		if addr == t.active {
			mark = "*"
		}
		rows = append(rows, []string{mark, addr})
	}
	return rows
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出 keystore 中的地址",
	RunE: func(cmd *cobra.Command, args []string) error {
		ks, err := openKeystore()
		if err != nil {
			return err
		}
		sess, err := currentSession()
		if err != nil {
			return err
		}
		addrs := ks.Addresses()
		return printAs(map[string]interface{}{"addresses": addrs, "active": sess.Account},
			keyTable{addresses: addrs, active: sess.Account})
	},
}

var newFlags struct {
	scheme string
	words  int
}

var keysNewCmd = &cobra.Command{
	Use:   "new",
	Short: "生成新密钥",
	Long:  "生成新密钥并写入 keystore。ed25519 密钥由新助记词派生，助记词只显示一次",
	RunE: func(cmd *cobra.Command, args []string) error {
		scheme, err := wallet.ParseScheme(newFlags.scheme)
		if err != nil {
			return err
		}
		ks, err := openKeystore()
		if err != nil {
			return err
		}

		var (
			kp       wallet.KeyPair
			mnemonic string
		)
		if scheme == wallet.SchemeEd25519 {
			strength := wallet.Mnemonic12Words
			switch newFlags.words {
			case 12:
			case 24:
				strength = wallet.Mnemonic24Words
			default:
				return fmt.Errorf("助记词长度只能是 12 或 24")
			}
			mm := wallet.NewMnemonicManager()
			if mnemonic, err = mm.GenerateMnemonic(strength); err != nil {
				return err
			}
			if kp, err = mm.KeyFromMnemonic(mnemonic, nil); err != nil {
				return err
			}
		} else if kp, err = wallet.Generate(scheme); err != nil {
			return err
		}

		ks.Add(kp)
		if err := ks.Save(); err != nil {
			return err
		}
		result := map[string]string{"address": kp.Address(), "scheme": scheme.String()}
		if mnemonic != "" {
			result["mnemonic"] = mnemonic
			formatter.PrintWarning("请妥善保存助记词，它不会再次显示")
		}
		return formatter.Print(result)
	},
}

var keysImportMnemonicCmd = &cobra.Command{
	Use:   "import-mnemonic",
	Short: "从标准输入读取助记词并导入",
	RunE: func(cmd *cobra.Command, args []string) error {
		mnemonic, err := readLine(cmd.InOrStdin(), "助记词: ")
		if err != nil {
			return err
		}
		ks, err := openKeystore()
		if err != nil {
			return err
		}
		w, err := wallet.NewKeystoreWallet(ks, "", wallet.WithLogger(logger))
		if err != nil {
			return err
		}
		addr, err := w.ImportMnemonic(mnemonic)
		if err != nil {
			return err
		}
		formatter.PrintSuccess("已导入 " + addr)
		return nil
	},
}

var keysUseCmd = &cobra.Command{
	Use:   "use <address>",
	Short: "设为会话账户",
	Args:  cobra.ExactArgs(1),
	RunE:  sessionConnectCmd.RunE,
}

var removeYes bool

var keysRemoveCmd = &cobra.Command{
	Use:   "remove <address>",
	Short: "从 keystore 删除密钥",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ks, err := openKeystore()
		if err != nil {
			return err
		}
		kp, err := ks.Find(args[0])
		if err != nil {
			return err
		}
		if !removeYes && !confirm(fmt.Sprintf("确认删除 %s? 没有备份将无法恢复", kp.Address())) {
			formatter.PrintInfo("取消删除")
			return nil
		}
		if err := ks.Remove(kp.Address()); err != nil {
			return err
		}
		if err := ks.Save(); err != nil {
			return err
		}
		if sessions.Current().Account == kp.Address() {
			if _, err := sessions.Disconnect(); err != nil {
				return err
			}
		}
		formatter.PrintSuccess("已删除 " + kp.Address())
		return nil
	},
}

var keysExportCmd = &cobra.Command{
	Use:   "export-backup <address> [file]",
	Short: "导出加密备份",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ks, err := openKeystore()
		if err != nil {
			return err
		}
		kp, err := ks.Find(args[0])
		if err != nil {
			return err
		}
		password, err := readPassword("备份密码: ", true)
		if err != nil {
			return err
		}
		backup, err := wallet.Encrypt(kp, password)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(backup, "", "  ")
		if err != nil {
			return err
		}
		file := strings.TrimPrefix(kp.Address(), "0x")[:12] + ".backup.json"
		if len(args) > 1 {
			file = args[1]
		}
		if err := os.WriteFile(file, data, 0o600); err != nil {
			return fmt.Errorf("写入备份: %w", err)
		}
		formatter.PrintSuccess(fmt.Sprintf("%s 已备份到 %s", kp.Address(), file))
		return nil
	},
}

var keysImportBackupCmd = &cobra.Command{
	Use:   "import-backup <file>",
	Short: "从加密备份导入",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("读取备份: %w", err)
		}
		var backup wallet.EncryptedKey
		if err := json.Unmarshal(data, &backup); err != nil {
			return fmt.Errorf("解析备份: %w", err)
		}
		password, err := readPassword("备份密码: ", false)
		if err != nil {
			return err
		}
		kp, err := backup.Decrypt(password)
		if err != nil {
			return err
		}
		ks, err := openKeystore()
		if err != nil {
			return err
		}
		ks.Add(kp)
		if err := ks.Save(); err != nil {
			return err
		}
		formatter.PrintSuccess("已导入 " + kp.Address())
		return nil
	},
}

func init() {
	keysNewCmd.Flags().StringVar(&newFlags.scheme, "scheme", "ed25519", "签名方案: ed25519|secp256k1")
	keysNewCmd.Flags().IntVar(&newFlags.words, "words", 12, "助记词长度: 12|24")
	keysRemoveCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "不询问直接删除")

	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysNewCmd)
	keysCmd.AddCommand(keysImportMnemonicCmd)
	keysCmd.AddCommand(keysUseCmd)
	keysCmd.AddCommand(keysRemoveCmd)
	keysCmd.AddCommand(keysExportCmd)
	keysCmd.AddCommand(keysImportBackupCmd)
}
