package services

import (
	"context"
	"errors"
	"regexp"

	"cofondo-backend/config"
	"cofondo-backend/database"
	"cofondo-backend/models"
	"cofondo-backend/utils"

	"gorm.io/gorm"
)

// The contact-completion gate decides whether a freshly connected wallet
// must supply missing contact fields before reaching the dashboard. It
// reconciles two profile sources: the login provider's cached social
// profile and the stored profile for the wallet (authoritative once it
// exists, but provider values win per field when both are present).

type GatePhase string

const (
	PhaseIdle         GatePhase = "idle"
	PhaseChecking     GatePhase = "checking"
	PhaseNeedsContact GatePhase = "needsContact"
	PhaseReady        GatePhase = "ready"
	PhaseError        GatePhase = "error"
)

type ContactFields struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

var ErrProfileNotFound = errors.New("profile not found")

// ProfileStore is the persistence the gate needs; the gorm-backed store is
// used in production and a fake in tests.
type ProfileStore interface {
	// FindByWallet returns ErrProfileNotFound when no profile exists.
	FindByWallet(ctx context.Context, wallet string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// Update applies merge semantics: empty fields are left untouched.
	Update(ctx context.Context, wallet string, fields ContactFields) error
}

type GateConfig struct {
	Disabled     bool
	RequireName  bool
	RequireEmail bool
	RequirePhone bool
}

// GateConfigFromApp reads the deployment toggles once at startup.
func GateConfigFromApp() GateConfig {
	return GateConfig{
		Disabled:     !config.AppConfig.ContactGate,
		RequireName:  config.AppConfig.RequireName,
		RequireEmail: config.AppConfig.RequireEmail,
		RequirePhone: config.AppConfig.RequirePhone,
	}
}

// ContactGate is a session-scoped state machine:
// idle → checking → needsContact | ready, error on save failure
// (recoverable: the attempted fields are retained for resubmission).
type ContactGate struct {
	cfg    GateConfig
	store  ProfileStore
	phase  GatePhase
	wallet string
	fields ContactFields
	exists bool
}

func NewContactGate(cfg GateConfig, store ProfileStore) *ContactGate {
	return &ContactGate{cfg: cfg, store: store, phase: PhaseIdle}
}

func (g *ContactGate) Phase() GatePhase      { return g.phase }
func (g *ContactGate) Fields() ContactFields { return g.fields }
func (g *ContactGate) ProfileExists() bool   { return g.exists }

// Connect runs the checking transition for a connected wallet. A disabled
// gate short-circuits to ready without touching the store. A lookup failure
// is treated as "may not exist yet": the gate proceeds with whatever the
// provider supplied.
func (g *ContactGate) Connect(ctx context.Context, wallet string, provider ContactFields) GatePhase {
	g.wallet = utils.NormalizeWallet(wallet)
	g.exists = false
	g.fields = provider

	if g.cfg.Disabled {
		g.phase = PhaseReady
		return g.phase
	}

	g.phase = PhaseChecking

	stored, err := g.store.FindByWallet(ctx, g.wallet)
	if err == nil {
		g.exists = true
		// stored values only fill fields the provider did not supply
		if g.fields.Name == "" {
			g.fields.Name = stored.Name
		}
		if g.fields.Email == "" {
			g.fields.Email = stored.Email
		}
		if g.fields.Phone == "" {
			g.fields.Phone = stored.Phone
		}
	}

	if g.missingRequired() {
		g.phase = PhaseNeedsContact
	} else {
		g.phase = PhaseReady
	}
	return g.phase
}

// Disconnect resets the machine for the next session.
func (g *ContactGate) Disconnect() {
	*g = ContactGate{cfg: g.cfg, store: g.store, phase: PhaseIdle}
}

// SaveContact persists the supplied fields: a create when no profile exists
// yet, a merge-update otherwise. On failure the gate moves to error but
// keeps the attempted values so the user can correct and resubmit.
func (g *ContactGate) SaveContact(ctx context.Context, fields ContactFields) error {
	if fields.Name != "" {
		g.fields.Name = fields.Name
	}
	if fields.Email != "" {
		g.fields.Email = fields.Email
	}
	if fields.Phone != "" {
		g.fields.Phone = fields.Phone
	}

	var err error
	if g.exists {
		err = g.store.Update(ctx, g.wallet, g.fields)
	} else {
		err = g.store.Create(ctx, &models.User{
			Wallet: g.wallet,
			Name:   g.fields.Name,
			Email:  g.fields.Email,
			Phone:  g.fields.Phone,
		})
	}
	if err != nil {
		g.phase = PhaseError
		return err
	}

	g.exists = true
	g.phase = PhaseReady
	return nil
}

func (g *ContactGate) missingRequired() bool {
	return (g.cfg.RequireName && g.fields.Name == "") ||
		(g.cfg.RequireEmail && g.fields.Email == "") ||
		(g.cfg.RequirePhone && g.fields.Phone == "")
}

// Field shape checks shared by the gate's callers.
var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[0-9+\-\s()]{7,20}$`)
)

func ValidEmail(email string) bool { return emailRe.MatchString(email) }
func ValidPhone(phone string) bool { return phoneRe.MatchString(phone) }

// GormProfileStore backs the gate with the shared database handle.
type GormProfileStore struct{}

func (GormProfileStore) FindByWallet(ctx context.Context, wallet string) (*models.User, error) {
	var user models.User
	err := database.DB.WithContext(ctx).Where("wallet = ?", wallet).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (GormProfileStore) Create(ctx context.Context, user *models.User) error {
	return database.DB.WithContext(ctx).Create(user).Error
}

func (GormProfileStore) Update(ctx context.Context, wallet string, fields ContactFields) error {
	updates := map[string]interface{}{}
	if fields.Name != "" {
		updates["name"] = fields.Name
	}
	if fields.Email != "" {
		updates["email"] = fields.Email
	}
	if fields.Phone != "" {
		updates["phone"] = fields.Phone
	}
	if len(updates) == 0 {
		return nil
	}
	return database.DB.WithContext(ctx).Model(&models.User{}).Where("wallet = ?", wallet).Updates(updates).Error
}
