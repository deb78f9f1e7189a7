package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/session"
	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/client/core/transport/transporttest"
)

const (
	alice       = "0x00000000000000000000000000000000000000000000000000000000000a11ce"
	capID       = "0xc1"
	profileID   = "0xc2"
	activityID  = "0xa1"
	ticketID    = "0x71"
	protectedID = "0x72"
)

var registry = config.DefaultRegistry()

func pkg(label string) string {
	return registry.PackageAddress(config.Testnet, label)
}

func typeOf(label, module, name string) string {
	return config.StructType(pkg(label), module, name)
}

func newReconciler(t *testing.T) (*Reconciler, *transporttest.Fake) {
	t.Helper()
	fake := transporttest.New()
	return New(fake, registry, config.Testnet, nil), fake
}

func sess() session.Context {
	return session.New(config.Testnet, alice)
}

func addOrganizer(fake *transporttest.Fake, capLabel string) {
	fake.AddObject(transporttest.OwnedObject(capID, typeOf(capLabel, config.ModuleOrganizer, config.StructOrganizerCap), alice,
		map[string]interface{}{"id": map[string]interface{}{"id": capID}, "profile_id": profileID}), alice)
	fake.AddObject(transporttest.SharedObject(profileID, typeOf("v1", config.ModuleOrganizer, config.StructOrganizerProfile),
		map[string]interface{}{
			"name":        "Live Nation",
			"treasury":    map[string]interface{}{"type": "0x2::balance::Balance<0x2::sui::SUI>", "fields": map[string]interface{}{"value": "4200"}},
			"verified_at": map[string]interface{}{"type": "0x1::option::Option<u64>", "fields": map[string]interface{}{"vec": []interface{}{"1700000000000"}}},
			"created_at":  "1690000000000",
		}), "")
}

func TestTypeFilterExactVersionMatch(t *testing.T) {
	v1Type := typeOf("v1", config.ModuleUser, config.StructUserCap)

	v1, err := FilterForVersion(registry, config.Testnet, "v1", config.ModuleUser, config.StructUserCap)
	require.NoError(t, err)
	latest, err := FilterFor(registry, config.Testnet, config.ModuleUser, config.StructUserCap)
	require.NoError(t, err)
	require.Equal(t, pkg("v4"), latest.Package)

	assert.True(t, v1.Matches(v1Type))
	assert.False(t, latest.Matches(v1Type), "v1 object must not match a v4 filter")

	profile := TypeFilter{Package: pkg("v1"), Module: config.ModuleUser, Struct: "User"}
	assert.False(t, profile.Matches(v1Type), "struct name prefix must not match")
	assert.False(t, v1.Matches(v1Type+"Extra"))
	assert.False(t, v1.Matches("garbage"))

	short := TypeFilter{Package: "0x2", Module: "kiosk", Struct: "Kiosk"}
	assert.True(t, short.Matches("0x0000000000000000000000000000000000000000000000000000000000000002::kiosk::Kiosk"))
	assert.True(t, short.Matches("0x2::kiosk::Kiosk<0x2::sui::SUI>"))

	all := FiltersForAllVersions(registry, config.Testnet, config.ModuleUser, config.StructUserCap)
	assert.Len(t, all, 4)
	assert.True(t, MatchesAny(all, v1Type))

	_, err = FilterFor(registry, config.Mainnet, config.ModuleUser, config.StructUserCap)
	assert.Error(t, err)
}

func TestResolveOrganizer(t *testing.T) {
	r, fake := newReconciler(t)
	addOrganizer(fake, "v1")

	res, err := r.ResolveOrganizer(context.Background(), sess())
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, OrganizerCap{ID: capID, ProfileID: profileID, Type: typeOf("v1", config.ModuleOrganizer, config.StructOrganizerCap)}, res.Cap)
	assert.Equal(t, OrganizerProfile{
		ID:         profileID,
		Name:       "Live Nation",
		Treasury:   4200,
		VerifiedAt: 1700000000000,
		CreatedAt:  1690000000000,
	}, res.Profile)
	assert.True(t, res.Profile.Verified())

	again, err := r.ResolveOrganizer(context.Background(), sess())
	require.NoError(t, err)
	assert.Equal(t, res, again)

	balance, found, err := r.ProfileBalance(context.Background(), sess())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint64(4200), balance)
}

func TestResolveOrganizerIgnoresUnregisteredPackage(t *testing.T) {
	r, fake := newReconciler(t)
	foreign := config.StructType("0x00000000000000000000000000000000000000000000000000000000deadbeef", config.ModuleOrganizer, config.StructOrganizerCap)
	fake.AddObject(transporttest.OwnedObject(capID, foreign, alice, map[string]interface{}{"profile_id": profileID}), alice)

	res, err := r.ResolveOrganizer(context.Background(), sess())
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, StatusOrganizerNotRegistered, res.Status)
}

func TestResolveUserNotRegistered(t *testing.T) {
	r, fake := newReconciler(t)
	fake.AddObject(transporttest.OwnedObject("0xd1", "0x2::coin::Coin<0x2::sui::SUI>", alice, map[string]interface{}{"balance": "1"}), alice)
	addOrganizer(fake, "v1")

	res, err := r.ResolveUser(context.Background(), sess())
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, StatusUserNotRegistered, res.Status)
}

func TestResolveUserMissingProfile(t *testing.T) {
	r, fake := newReconciler(t)
	fake.AddObject(transporttest.OwnedObject("0xb1", typeOf("v4", config.ModuleUser, config.StructUserCap), alice,
		map[string]interface{}{"profile_id": "0x404"}), alice)

	res, err := r.ResolveUser(context.Background(), sess())
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, StatusProfileMissing, res.Status)
	assert.Equal(t, "0x404", res.Cap.ProfileID)
}

func TestResolveRequiresMatchingSession(t *testing.T) {
	r, _ := newReconciler(t)

	_, err := r.ResolveUser(context.Background(), session.New(config.Devnet, alice))
	assert.ErrorIs(t, err, ErrEnvMismatch)

	_, err = r.ResolveUser(context.Background(), session.New(config.Testnet, ""))
	assert.ErrorIs(t, err, session.ErrNotConnected)
}

func TestFindOwnedAcrossPages(t *testing.T) {
	r, fake := newReconciler(t)
	fake.PageSize = 2
	for _, id := range []string{"0xe1", "0xe2", "0xe3"} {
		fake.AddObject(transporttest.OwnedObject(id, "0x2::coin::Coin<0x2::sui::SUI>", alice, nil), alice)
	}
	userCap := typeOf("v2", config.ModuleUser, config.StructUserCap)
	fake.AddObject(transporttest.OwnedObject("0xe4", userCap, alice, nil), alice)
	fake.AddObject(transporttest.OwnedObject("0xe5", userCap, alice, nil), alice)

	obj, err := r.FindOwned(context.Background(), alice, FiltersForAllVersions(registry, config.Testnet, config.ModuleUser, config.StructUserCap)...)
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, "0xe4", obj.ObjectID)
	assert.Equal(t, 2, fake.Calls("GetOwnedObjects"))
}

func TestActivityAndTickets(t *testing.T) {
	r, fake := newReconciler(t)
	fake.AddObject(transporttest.SharedObject(activityID, typeOf("v1", config.ModuleActivity, config.StructActivity), map[string]interface{}{
		"name":                 "Jazz Night",
		"description":          "late show",
		"organizer_profile_id": profileID,
		"total_supply":         "100",
		"tickets_sold":         "40",
		"ticket_price":         "1000000000",
		"sale_ended_at":        "1800000000000",
		"created_at":           "1700000000000",
	}), "")
	fake.AddObject(transporttest.OwnedObject(ticketID, typeOf("v1", config.ModuleTicket, config.StructTicket), alice, map[string]interface{}{
		"activity_id": activityID,
		"redeemed_at": "0",
	}), alice)
	fake.AddObject(transporttest.OwnedObject(protectedID, typeOf("v3", config.ModuleTicket, config.StructProtectedTicket), alice, map[string]interface{}{
		"ticket": map[string]interface{}{
			"type": typeOf("v1", config.ModuleTicket, config.StructTicket),
			"fields": map[string]interface{}{
				"id":          map[string]interface{}{"id": "0x73"},
				"activity_id": activityID,
				"redeemed_at": "1750000000000",
			},
		},
	}), alice)

	a, err := r.Activity(context.Background(), activityID)
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night", a.Name)
	assert.Equal(t, uint64(60), a.Remaining())
	assert.Equal(t, uint64(1_000_000_000), a.TicketPrice)

	plain, err := r.Ticket(context.Background(), ticketID)
	require.NoError(t, err)
	assert.Equal(t, Ticket{ID: ticketID, ActivityID: activityID}, plain)
	assert.False(t, plain.Redeemed())

	wrapped, err := r.Ticket(context.Background(), protectedID)
	require.NoError(t, err)
	assert.Equal(t, Ticket{ID: "0x73", ActivityID: activityID, RedeemedAt: 1750000000000, Protected: true, WrapperID: protectedID}, wrapped)

	owned, err := r.OwnedTickets(context.Background(), sess())
	require.NoError(t, err)
	assert.Equal(t, []Ticket{plain, wrapped}, owned)

	_, err = r.Ticket(context.Background(), activityID)
	assert.ErrorIs(t, err, ErrUnexpectedType)

	_, err = r.Activity(context.Background(), "0x405")
	assert.ErrorIs(t, err, transport.ErrObjectNotFound)
}

func TestKioskCap(t *testing.T) {
	r, fake := newReconciler(t)

	_, found, err := r.KioskCap(context.Background(), sess(), "")
	require.NoError(t, err)
	assert.False(t, found)

	fake.AddObject(transporttest.OwnedObject("0xd1", config.FrameworkKioskOwnerCap, alice,
		map[string]interface{}{"for": "0xb1"}), alice)
	fake.AddObject(transporttest.OwnedObject("0xd2", config.FrameworkKioskOwnerCap, alice,
		map[string]interface{}{"for": "0xb2"}), alice)

	c, found, err := r.KioskCap(context.Background(), sess(), "")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, KioskOwnerCap{ID: "0xd1", KioskID: "0xb1"}, c)

	c, found, err = r.KioskCap(context.Background(), sess(), "0x00b2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "0xd2", c.ID)

	_, found, err = r.KioskCap(context.Background(), sess(), "0xb3")
	require.NoError(t, err)
	assert.False(t, found)
}
