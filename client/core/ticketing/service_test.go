package ticketing

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/reconcile"
	"github.com/suiticket/v1/client/core/session"
	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/client/core/transport/transporttest"
	"github.com/suiticket/v1/client/core/wallet"
	eventbus "github.com/suiticket/v1/internal/core/infrastructure/event"
	"github.com/suiticket/v1/pkg/bcs"
)

const (
	alice      = "0x00000000000000000000000000000000000000000000000000000000000a11ce"
	activityID = "0xa1"
	ticketID   = "0x71"
	kioskID    = "0xb10"
	kioskCapID = "0xd1"
	orgProfile = "0xc2"
)

var registry = config.DefaultRegistry()

func typeOf(module, name string) string {
	return config.StructType(registry.PackageAddress(config.Testnet, "v1"), module, name)
}

// stubWallet 记录提交的交易包
type stubWallet struct {
	bundles []*builder.Bundle
	err     error
	onSign  func()
}

func (w *stubWallet) Address() string    { return alice }
func (w *stubWallet) Accounts() []string { return []string{alice} }

func (w *stubWallet) SignAndSubmit(_ context.Context, b *builder.Bundle, _ config.Environment) (*wallet.SubmitResult, error) {
	w.bundles = append(w.bundles, b)
	if w.onSign != nil {
		w.onSign()
	}
	if w.err != nil {
		return nil, w.err
	}
	return &wallet.SubmitResult{Digest: "Dg1", Sender: alice}, nil
}

func (w *stubWallet) lastCall(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, w.bundles)
	var fn string
	for _, cmd := range w.bundles[len(w.bundles)-1].Commands() {
		if cmd.Kind == builder.CmdMoveCall {
			fn = cmd.Function
		}
	}
	return fn
}

func newService(t *testing.T, opts ...Option) (*Service, *transporttest.Fake, *stubWallet) {
	t.Helper()
	fake := transporttest.New()
	w := &stubWallet{}
	opts = append([]Option{WithSettleDelay(0)}, opts...)
	return NewService(fake, registry, config.Testnet, w, opts...), fake, w
}

func sess() session.Context { return session.New(config.Testnet, alice) }

func addUser(fake *transporttest.Fake) {
	fake.AddObject(transporttest.OwnedObject("0xe1", typeOf(config.ModuleUser, config.StructUserCap), alice,
		map[string]interface{}{"profile_id": "0xe2"}), alice)
	fake.AddObject(transporttest.OwnedObject("0xe2", typeOf(config.ModuleUser, config.StructUserProfile), alice,
		map[string]interface{}{"name": "alice", "created_at": "1"}), "")
}

func addOrganizer(fake *transporttest.Fake) {
	fake.AddObject(transporttest.OwnedObject("0xc1", typeOf(config.ModuleOrganizer, config.StructOrganizerCap), alice,
		map[string]interface{}{"profile_id": orgProfile}), alice)
	fake.AddObject(transporttest.SharedObject(orgProfile, typeOf(config.ModuleOrganizer, config.StructOrganizerProfile),
		map[string]interface{}{"name": "Live Nation", "created_at": "1"}), "")
}

func addActivity(fake *transporttest.Fake, sold uint64) {
	fake.AddObject(transporttest.SharedObject(activityID, typeOf(config.ModuleActivity, config.StructActivity),
		map[string]interface{}{
			"name":                 "Jazz Night",
			"organizer_profile_id": orgProfile,
			"total_supply":         "100",
			"tickets_sold":         strconv.FormatUint(sold, 10),
			"ticket_price":         "800000000",
			"sale_ended_at":        "4102444800000",
		}), "")
}

func addTicket(fake *transporttest.Fake, redeemedAt string) {
	fake.AddObject(transporttest.OwnedObject(ticketID, typeOf(config.ModuleTicket, config.StructTicket), alice,
		map[string]interface{}{"activity_id": activityID, "redeemed_at": redeemedAt}), alice)
}

func addKiosk(fake *transporttest.Fake) {
	fake.AddObject(transporttest.SharedObject(kioskID, config.FrameworkKioskType, nil), "")
	fake.AddObject(transporttest.OwnedObject(kioskCapID, config.FrameworkKioskOwnerCap, alice,
		map[string]interface{}{"for": kioskID}), alice)
}

// addPolicy 放入注册表中的转移策略与平台共享对象，模拟调用解析输入时需要它们
func addPolicy(fake *transporttest.Fake) {
	fake.AddObject(transporttest.SharedObject(registry.AddressOf(config.Testnet, config.RoleTransferPolicy),
		"0x2::transfer_policy::TransferPolicy", nil), "")
	fake.AddObject(transporttest.SharedObject(registry.AddressOf(config.Testnet, config.RolePlatform),
		typeOf(config.ModulePlatform, config.StructPlatform), nil), "")
}

func listedAt(fake *transporttest.Fake, price uint64) {
	fake.OnInspect(config.FnAppListedPrice, func(string, []byte) (*transport.DevInspectResults, error) {
		return transporttest.ReturnU64(price), nil
	})
}

func TestRegisterUser(t *testing.T) {
	bus := eventbus.New()
	var published []ActionResult
	require.NoError(t, bus.Subscribe(eventbus.EventTransactionSubmitted, func(r ActionResult) { published = append(published, r) }))

	s, _, w := newService(t, WithEventBus(bus))
	res := s.RegisterUser(context.Background(), sess(), "alice")

	require.NoError(t, res.Err)
	assert.True(t, res.OK())
	assert.Equal(t, "Dg1", res.Digest)
	assert.Equal(t, "注册用户成功", res.Status)
	assert.NotEmpty(t, res.ID)
	assert.True(t, strings.HasSuffix(w.lastCall(t), "::user::register"))
	assert.Equal(t, alice, w.bundles[0].Sender())

	require.Len(t, published, 1)
	assert.Equal(t, res.ID, published[0].ID)
}

func TestRegisterUserAlreadyRegistered(t *testing.T) {
	s, fake, w := newService(t)
	addUser(fake)

	res := s.RegisterUser(context.Background(), sess(), "alice")
	assert.Equal(t, StatusAlreadyUser, res.Status)
	assert.False(t, res.OK())
	var b *Blocked
	assert.True(t, errors.As(res.Err, &b))
	assert.Empty(t, w.bundles)

	res = s.RegisterUser(context.Background(), sess(), "  ")
	assert.Equal(t, StatusEmptyName, res.Status)
}

func TestPreconditions(t *testing.T) {
	s, _, w := newService(t)

	res := s.RegisterOrganizer(context.Background(), session.New(config.Testnet, ""), "org")
	assert.Equal(t, StatusNotConnected, res.Status)

	res = s.RegisterOrganizer(context.Background(), session.New(config.Devnet, alice), "org")
	assert.Equal(t, StatusWrongNetwork, res.Status)

	mainnet := NewService(transporttest.New(), registry, config.Mainnet, w, WithSettleDelay(0))
	res = mainnet.RegisterOrganizer(context.Background(), session.New(config.Mainnet, alice), "org")
	assert.Equal(t, StatusNotConfigured, res.Status)
	assert.Empty(t, w.bundles)
}

func TestCreateActivityRequiresOrganizer(t *testing.T) {
	s, fake, w := newService(t)
	in := ActivityInput{Name: "Jazz Night", TotalSupply: 100, TicketPrice: 1, SaleEndsAt: time.Now().Add(time.Hour)}

	res := s.CreateActivity(context.Background(), sess(), in)
	assert.Equal(t, reconcile.StatusOrganizerNotRegistered, res.Status)
	assert.Empty(t, w.bundles)

	addOrganizer(fake)
	res = s.CreateActivity(context.Background(), sess(), in)
	require.NoError(t, res.Err)
	assert.True(t, strings.HasSuffix(w.lastCall(t), "::activity::create_activity"))

	in.SaleEndsAt = time.Now().Add(-time.Hour)
	res = s.CreateActivity(context.Background(), sess(), in)
	assert.Error(t, res.Err)
	assert.Len(t, w.bundles, 1)
}

func TestBuyTicket(t *testing.T) {
	s, fake, w := newService(t)
	addActivity(fake, 7)

	res := s.BuyTicket(context.Background(), sess(), activityID)
	assert.Equal(t, reconcile.StatusUserNotRegistered, res.Status)

	addUser(fake)
	res = s.BuyTicket(context.Background(), sess(), activityID)
	require.NoError(t, res.Err)
	assert.True(t, strings.HasSuffix(w.lastCall(t), "::ticket::purchase_ticket"))
	assert.Equal(t, uint64(800_000_000), wallet.GasCoinSpend(w.bundles[0]))
}

func TestBuyTicketSoldOut(t *testing.T) {
	s, fake, w := newService(t)
	addUser(fake)
	addActivity(fake, 100)

	res := s.BuyTicket(context.Background(), sess(), activityID)
	assert.Equal(t, StatusSoldOut, res.Status)
	assert.Empty(t, w.bundles)
}

func TestBuyListedTicketSplitsExactTotal(t *testing.T) {
	s, fake, w := newService(t)
	addUser(fake)
	addActivity(fake, 7)
	addTicket(fake, "0")
	addKiosk(fake)
	addPolicy(fake)
	listedAt(fake, 1_000_000_000)

	res := s.BuyListedTicket(context.Background(), sess(), kioskID, ticketID)
	require.NoError(t, res.Err)
	assert.True(t, strings.HasSuffix(w.lastCall(t), "::app::purchase_ticket"))
	// 两个费用分量都回退：2.5% 版税 + 5% 平台费
	assert.Equal(t, uint64(1_075_000_000), wallet.GasCoinSpend(w.bundles[0]))

	plan, err := s.PlanPurchase(context.Background(), kioskID, ticketID, alice)
	require.NoError(t, err)
	assert.True(t, plan.Quote.HasFallback())
	assert.Equal(t, uint64(1_075_000_000), plan.Quote.TotalCost)
	assert.Equal(t, orgProfile, plan.Request.OrganizerProfileID)
	assert.Equal(t, activityID, plan.Request.ActivityID)
	assert.Equal(t, alice, plan.Request.Recipient)
}

func TestBuyListedTicketUsesOnchainFees(t *testing.T) {
	s, fake, w := newService(t)
	addUser(fake)
	addActivity(fake, 7)
	addTicket(fake, "0")
	addKiosk(fake)
	addPolicy(fake)
	listedAt(fake, 1_000_000_000)
	fake.OnInspect(config.FnPolicyCalculateRoyaltyFee, func(string, []byte) (*transport.DevInspectResults, error) {
		return transporttest.ReturnU64(30_000_000), nil
	})

	res := s.BuyListedTicket(context.Background(), sess(), kioskID, ticketID)
	require.NoError(t, res.Err)
	// 链上版税 0.03 + 回退平台费 0.05
	assert.Equal(t, uint64(1_080_000_000), wallet.GasCoinSpend(w.bundles[0]))
}

func TestBuyListedTicketWithoutKiosk(t *testing.T) {
	s, fake, w := newService(t)
	addUser(fake)
	addActivity(fake, 7)
	addTicket(fake, "0")
	addPolicy(fake)
	listedAt(fake, 1_000_000_000)

	res := s.BuyListedTicket(context.Background(), sess(), kioskID, ticketID)
	assert.Error(t, res.Err)
	assert.False(t, res.OK())
	assert.Empty(t, w.bundles)
}

func TestListTicket(t *testing.T) {
	s, fake, w := newService(t)
	addActivity(fake, 7)
	addTicket(fake, "0")
	addPolicy(fake)
	fake.OnInspect(config.FnPolicyGetResaleLimitRuleConfig, func(string, []byte) (*transport.DevInspectResults, error) {
		return transporttest.Return(transport.ReturnValue{Bytes: bcs.U16(15000), Type: "u16"}), nil
	})

	res := s.ListTicket(context.Background(), sess(), ticketID, 1_000_000_000)
	assert.Equal(t, StatusNoKiosk, res.Status)

	addKiosk(fake)
	// 原价 0.8 SUI，上限 150%
	res = s.ListTicket(context.Background(), sess(), ticketID, 1_300_000_000)
	assert.Equal(t, "挂单价超过转售上限 1.2 SUI", res.Status)
	assert.Empty(t, w.bundles)

	res = s.ListTicket(context.Background(), sess(), ticketID, 1_200_000_000)
	require.NoError(t, res.Err)
	assert.True(t, strings.HasSuffix(w.lastCall(t), "::app::list_ticket"))

	res = s.ListTicket(context.Background(), sess(), ticketID, 0)
	assert.Equal(t, StatusInvalidPrice, res.Status)
}

func TestListTicketWithoutResaleRule(t *testing.T) {
	s, fake, w := newService(t)
	addActivity(fake, 7)
	addTicket(fake, "0")
	addKiosk(fake)
	addPolicy(fake)
	fake.OnInspect(config.FnPolicyGetResaleLimitRuleConfig, func(string, []byte) (*transport.DevInspectResults, error) {
		return transporttest.Abort("dynamic_field::borrow_child_object"), nil
	})

	res := s.ListTicket(context.Background(), sess(), ticketID, 10_000_000_000)
	require.NoError(t, res.Err)
	assert.Len(t, w.bundles, 1)
}

func TestListTicketBlocksWhenResaleRuleUnreadable(t *testing.T) {
	s, fake, w := newService(t)
	addActivity(fake, 7)
	addTicket(fake, "0")
	addKiosk(fake)
	fake.OnInspect(config.FnPolicyGetResaleLimitRuleConfig, func(string, []byte) (*transport.DevInspectResults, error) {
		return transporttest.Return(transport.ReturnValue{Bytes: bcs.U16(15000), Type: "u16"}), nil
	})

	// 策略对象无法解析，限价未知
	res := s.ListTicket(context.Background(), sess(), ticketID, 9_000_000_000)
	assert.Equal(t, StatusResaleLimitUnknown, res.Status)
	var b *Blocked
	assert.True(t, errors.As(res.Err, &b))
	assert.Empty(t, w.bundles)
}

func TestDelistTicket(t *testing.T) {
	s, fake, w := newService(t)

	res := s.DelistTicket(context.Background(), sess(), kioskID, ticketID)
	assert.Contains(t, res.Status, "不持有 Kiosk")

	addKiosk(fake)
	res = s.DelistTicket(context.Background(), sess(), kioskID, ticketID)
	require.NoError(t, res.Err)
	assert.True(t, strings.HasSuffix(w.lastCall(t), "::app::delist_ticket"))
}

func TestRedeemTicket(t *testing.T) {
	s, fake, w := newService(t)
	addTicket(fake, "1700000000000")

	res := s.RedeemTicket(context.Background(), sess(), ticketID)
	assert.Equal(t, StatusAlreadyRedeemed, res.Status)
	assert.Empty(t, w.bundles)
}

func TestConfigurePolicy(t *testing.T) {
	s, _, w := newService(t)

	res := s.ConfigurePolicy(context.Background(), sess(), PolicyChange{Rule: RuleRoyalty, FeeBP: 250, MinFee: 1})
	require.NoError(t, res.Err)
	assert.True(t, strings.HasSuffix(w.lastCall(t), "::"+config.FnPolicyAddRoyaltyRule))

	res = s.ConfigurePolicy(context.Background(), sess(), PolicyChange{Rule: RulePlatformFee, Remove: true})
	require.NoError(t, res.Err)
	assert.True(t, strings.HasSuffix(w.lastCall(t), "::"+config.FnPolicyRemovePlatformFeeRule))

	res = s.ConfigurePolicy(context.Background(), sess(), PolicyChange{Rule: "bogus"})
	assert.Contains(t, res.Status, "未知的策略规则")
	assert.Len(t, w.bundles, 2)
}

func TestExecutionFailureSurfacesVerbatim(t *testing.T) {
	s, _, w := newService(t)
	const abort = "MoveAbort(MoveLocation { module: user, function: 0 }, 1) in command 0"
	w.err = &wallet.ExecutionError{Digest: "DgFail", Message: abort}

	res := s.RegisterUser(context.Background(), sess(), "alice")
	assert.ErrorIs(t, res.Err, wallet.ErrExecutionFailed)
	assert.Equal(t, "DgFail", res.Digest)
	assert.Contains(t, res.Status, abort)
	assert.False(t, res.OK())
}

func TestSettleDelayIsCancellable(t *testing.T) {
	s, _, w := newService(t, WithSettleDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	w.onSign = cancel

	start := time.Now()
	res := s.RegisterUser(ctx, sess(), "alice")
	assert.Less(t, time.Since(start), time.Minute)
	assert.Equal(t, "Dg1", res.Digest)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestRetry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("busy")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = Retry(context.Background(), 2, time.Millisecond, func(context.Context) error {
		calls++
		return errors.New("down")
	})
	assert.EqualError(t, err, "after 2 attempts: down")
	assert.Equal(t, 2, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Retry(ctx, 5, time.Hour, func(context.Context) error { return errors.New("down") })
	assert.ErrorIs(t, err, context.Canceled)
}
