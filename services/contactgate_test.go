package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cofondo-backend/models"
	"cofondo-backend/services"
)

type fakeProfileStore struct {
	users map[string]*models.User

	findErr   error
	createErr error
	updateErr error

	findCalls   int
	createCalls int
	updateCalls int
}

func newFakeStore() *fakeProfileStore {
	return &fakeProfileStore{users: map[string]*models.User{}}
}

func (s *fakeProfileStore) FindByWallet(_ context.Context, wallet string) (*models.User, error) {
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	user, ok := s.users[wallet]
	if !ok {
		return nil, services.ErrProfileNotFound
	}
	return user, nil
}

func (s *fakeProfileStore) Create(_ context.Context, user *models.User) error {
	s.createCalls++
	if s.createErr != nil {
		return s.createErr
	}
	s.users[user.Wallet] = user
	return nil
}

func (s *fakeProfileStore) Update(_ context.Context, wallet string, fields services.ContactFields) error {
	s.updateCalls++
	if s.updateErr != nil {
		return s.updateErr
	}
	user := s.users[wallet]
	if fields.Name != "" {
		user.Name = fields.Name
	}
	if fields.Email != "" {
		user.Email = fields.Email
	}
	if fields.Phone != "" {
		user.Phone = fields.Phone
	}
	return nil
}

func allRequired() services.GateConfig {
	return services.GateConfig{RequireName: true, RequireEmail: true, RequirePhone: true}
}

func TestGate_MissingPhoneThenSave(t *testing.T) {
	store := newFakeStore()
	gate := services.NewContactGate(allRequired(), store)

	phase := gate.Connect(context.Background(), "0xABC0000000000000000000000000000000000abc", services.ContactFields{
		Name:  "Juan Pérez",
		Email: "juan@example.com",
	})
	assert.Equal(t, services.PhaseNeedsContact, phase)

	err := gate.SaveContact(context.Background(), services.ContactFields{Phone: "+504 9999-1234"})
	require.NoError(t, err)
	assert.Equal(t, services.PhaseReady, gate.Phase())

	// first save creates the profile
	assert.Equal(t, 1, store.createCalls)
	saved := store.users["0xabc0000000000000000000000000000000000abc"]
	require.NotNil(t, saved)
	assert.Equal(t, "Juan Pérez", saved.Name)
	assert.Equal(t, "+504 9999-1234", saved.Phone)
}

func TestGate_ProviderFieldsWinOverStored(t *testing.T) {
	store := newFakeStore()
	store.users["0xfeed"] = &models.User{
		Wallet: "0xfeed",
		Name:   "Stored Name",
		Email:  "stored@example.com",
		Phone:  "+504 1111-1111",
	}
	gate := services.NewContactGate(allRequired(), store)

	phase := gate.Connect(context.Background(), "0xFEED", services.ContactFields{
		Email: "provider@example.com",
	})

	assert.Equal(t, services.PhaseReady, phase)
	assert.True(t, gate.ProfileExists())

	fields := gate.Fields()
	assert.Equal(t, "provider@example.com", fields.Email, "provider value wins")
	assert.Equal(t, "Stored Name", fields.Name, "stored value fills the gap")
	assert.Equal(t, "+504 1111-1111", fields.Phone)
}

func TestGate_DisabledShortCircuits(t *testing.T) {
	store := newFakeStore()
	cfg := allRequired()
	cfg.Disabled = true
	gate := services.NewContactGate(cfg, store)

	phase := gate.Connect(context.Background(), "0xfeed", services.ContactFields{})

	assert.Equal(t, services.PhaseReady, phase)
	assert.Zero(t, store.findCalls, "disabled gate must not touch the store")
}

func TestGate_LookupFailureFallsThrough(t *testing.T) {
	store := newFakeStore()
	store.findErr = errors.New("backend unavailable")
	gate := services.NewContactGate(allRequired(), store)

	// provider supplied everything required, so a failed lookup is treated
	// as "may not exist yet" and the session proceeds
	phase := gate.Connect(context.Background(), "0xfeed", services.ContactFields{
		Name:  "Sarah Wilson",
		Email: "sarah@example.com",
		Phone: "+504 2222-2222",
	})

	assert.Equal(t, services.PhaseReady, phase)
	assert.False(t, gate.ProfileExists())
}

func TestGate_SaveFailureRetainsFieldsForRetry(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("backend unavailable")
	gate := services.NewContactGate(allRequired(), store)

	gate.Connect(context.Background(), "0xfeed", services.ContactFields{
		Name:  "Mike Johnson",
		Email: "mike@example.com",
	})

	err := gate.SaveContact(context.Background(), services.ContactFields{Phone: "+504 3333-3333"})
	require.Error(t, err)
	assert.Equal(t, services.PhaseError, gate.Phase())

	// attempted values survive so the user can correct and resubmit
	assert.Equal(t, "+504 3333-3333", gate.Fields().Phone)
	assert.Equal(t, "Mike Johnson", gate.Fields().Name)

	store.createErr = nil
	require.NoError(t, gate.SaveContact(context.Background(), services.ContactFields{}))
	assert.Equal(t, services.PhaseReady, gate.Phase())
	assert.Equal(t, "+504 3333-3333", store.users["0xfeed"].Phone)
}

func TestGate_ExistingProfileSavesViaUpdate(t *testing.T) {
	store := newFakeStore()
	store.users["0xfeed"] = &models.User{Wallet: "0xfeed", Name: "Juan Pérez", Email: "juan@example.com"}
	gate := services.NewContactGate(allRequired(), store)

	phase := gate.Connect(context.Background(), "0xfeed", services.ContactFields{})
	require.Equal(t, services.PhaseNeedsContact, phase) // phone still missing

	require.NoError(t, gate.SaveContact(context.Background(), services.ContactFields{Phone: "+504 4444-4444"}))

	assert.Equal(t, 0, store.createCalls)
	assert.Equal(t, 1, store.updateCalls)
	assert.Equal(t, "+504 4444-4444", store.users["0xfeed"].Phone)
	assert.Equal(t, "Juan Pérez", store.users["0xfeed"].Name, "merge update leaves other fields")
}

func TestGate_OptionalFieldsConfigurable(t *testing.T) {
	store := newFakeStore()
	cfg := services.GateConfig{RequireEmail: true} // name and phone optional
	gate := services.NewContactGate(cfg, store)

	phase := gate.Connect(context.Background(), "0xfeed", services.ContactFields{Email: "a@b.co"})
	assert.Equal(t, services.PhaseReady, phase)
}

func TestGate_DisconnectResets(t *testing.T) {
	store := newFakeStore()
	gate := services.NewContactGate(allRequired(), store)

	gate.Connect(context.Background(), "0xfeed", services.ContactFields{Name: "x"})
	gate.Disconnect()

	assert.Equal(t, services.PhaseIdle, gate.Phase())
	assert.Equal(t, services.ContactFields{}, gate.Fields())
}

func TestValidators(t *testing.T) {
	assert.True(t, services.ValidEmail("juan@example.com"))
	assert.False(t, services.ValidEmail("juan@"))
	assert.False(t, services.ValidEmail("no spaces@example.com"))

	assert.True(t, services.ValidPhone("+504 9999-1234"))
	assert.True(t, services.ValidPhone("(555) 123-4567"))
	assert.False(t, services.ValidPhone("123"))
	assert.False(t, services.ValidPhone("call me maybe"))
}
