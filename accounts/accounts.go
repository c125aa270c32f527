/*
Package accounts manages who can open the ledger.

PURPOSE:
  A small JSON file maps lowercase usernames to login records. Owners see
  and manage everything; barbers are scoped to their own rows via the
  display name, which is the join key against the ledger's Barber_Name
  column.

SECURITY:
  Passwords are stored and compared in PLAIN TEXT. That is a known,
  accepted limitation of this deployment (one laptop in the back room,
  file readable by the shop owner anyway) and is kept deliberately so the
  file stays hand-editable. Do not point this package at anything that
  matters. What the package does keep tight: the login failure is one
  generic error that never says whether the username or the password was
  wrong.

INVARIANTS:
  - Usernames are unique, case-insensitive, stored lowercase.
  - At least one owner always exists: opening an ownerless file
    synthesizes the default owner/owner account and persists it.
  - Owner accounts cannot be deleted through this API.
  - Every mutation persists immediately; a failed save rolls the
    in-memory change back.

SEE ALSO:
  - ledger/visibility.go: how the display name scopes rows
*/
package accounts

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/chairside/shop-ledger/ledger"
)

// =============================================================================
// TYPES
// =============================================================================

// Role is the login-side role, distinct from the ledger-row Role column.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleBarber Role = "barber"
)

// Account is one login identity.
type Account struct {
	Username    string
	Password    string // plain text, see package doc
	Role        Role
	DisplayName string
}

func (a Account) IsOwner() bool { return a.Role == RoleOwner }

// Actor maps the account onto the ledger's actor contract.
func (a Account) Actor() ledger.Actor {
	role := ledger.ActorBarber
	if a.IsOwner() {
		role = ledger.ActorOwner
	}
	return ledger.Actor{Role: role, DisplayName: a.DisplayName}
}

// accountRecord is the on-disk shape, keyed by lowercase username.
type accountRecord struct {
	Password    string `json:"password"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidCredentials is the single answer to every failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken is returned when creating over an existing username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrAccountNotFound is returned for operations on unknown usernames.
	ErrAccountNotFound = errors.New("account not found")

	// ErrOwnerUndeletable guards the last-owner invariant. Owner accounts
	// are never deleted through this API, last or not.
	ErrOwnerUndeletable = errors.New("owner accounts cannot be deleted")
)

// =============================================================================
// STORE
// =============================================================================

const (
	defaultOwnerUsername = "owner"
	defaultOwnerPassword = "owner"
	defaultOwnerDisplay  = "Owner"
)

// Store holds the accounts file in memory and persists every change.
type Store struct {
	path   string
	log    *slog.Logger
	byUser map[string]Account
}

// Open loads the accounts file (or starts empty when it does not exist)
// and guarantees an owner exists before returning.
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{
		path:   path,
		log:    log.With("component", "accounts"),
		byUser: make(map[string]Account),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	if !s.hasOwner() {
		s.log.Warn("no owner account on file, creating default owner; change its password",
			"username", defaultOwnerUsername)
		s.byUser[defaultOwnerUsername] = Account{
			Username:    defaultOwnerUsername,
			Password:    defaultOwnerPassword,
			Role:        RoleOwner,
			DisplayName: defaultOwnerDisplay,
		}
		if err := s.save(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("accounts: read %s: %w", s.path, err)
	}
	var raw map[string]accountRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("accounts: parse %s: %w", s.path, err)
	}
	for username, rec := range raw {
		key := normalizeUsername(username)
		if key == "" {
			continue
		}
		s.byUser[key] = Account{
			Username:    key,
			Password:    rec.Password,
			Role:        rec.Role,
			DisplayName: rec.DisplayName,
		}
	}
	return nil
}

func (s *Store) save() error {
	raw := make(map[string]accountRecord, len(s.byUser))
	for username, a := range s.byUser {
		raw[username] = accountRecord{
			Password:    a.Password,
			Role:        a.Role,
			DisplayName: a.DisplayName,
		}
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("accounts: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("accounts: write %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) hasOwner() bool {
	for _, a := range s.byUser {
		if a.IsOwner() {
			return true
		}
	}
	return false
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Authenticate checks a username/password pair. Username matching is
// case-insensitive; the password is compared exactly. Unknown user and
// wrong password fail identically.
func (s *Store) Authenticate(username, password string) (Account, error) {
	a, ok := s.byUser[normalizeUsername(username)]
	if !ok || a.Password != password {
		return Account{}, ErrInvalidCredentials
	}
	return a, nil
}

// CreateInput is the validated surface for new accounts.
type CreateInput struct {
	Username    string `validate:"required"`
	Password    string `validate:"required"`
	Role        Role   `validate:"required,oneof=owner barber"`
	DisplayName string `validate:"required"`
}

var createValidator = validator.New(validator.WithRequiredStructEnabled())

// Create adds an account and persists. The username is lowercased, the
// display name title-cased so it can meet Barber_Name on equal terms.
func (s *Store) Create(in CreateInput) (Account, error) {
	in.Username = normalizeUsername(in.Username)
	in.DisplayName = ledger.TitleCase(in.DisplayName)
	if err := createValidator.Struct(in); err != nil {
		return Account{}, fmt.Errorf("accounts: invalid account: %w", err)
	}
	if _, exists := s.byUser[in.Username]; exists {
		return Account{}, ErrUsernameTaken
	}

	a := Account{
		Username:    in.Username,
		Password:    in.Password,
		Role:        in.Role,
		DisplayName: in.DisplayName,
	}
	s.byUser[in.Username] = a
	if err := s.save(); err != nil {
		delete(s.byUser, in.Username)
		return Account{}, err
	}
	s.log.Info("account created", "username", a.Username, "role", a.Role)
	return a, nil
}

// Delete removes a barber account and persists. Owner accounts are
// refused; the book must always have someone who can see all of it.
func (s *Store) Delete(username string) error {
	key := normalizeUsername(username)
	a, ok := s.byUser[key]
	if !ok {
		return ErrAccountNotFound
	}
	if a.IsOwner() {
		return ErrOwnerUndeletable
	}

	delete(s.byUser, key)
	if err := s.save(); err != nil {
		s.byUser[key] = a
		return err
	}
	s.log.Info("account deleted", "username", key)
	return nil
}

// Get looks an account up by username, case-insensitively.
func (s *Store) Get(username string) (Account, bool) {
	a, ok := s.byUser[normalizeUsername(username)]
	return a, ok
}

// List returns all accounts sorted by username.
func (s *Store) List() []Account {
	out := make([]Account, 0, len(s.byUser))
	for _, a := range s.byUser {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (s *Store) Len() int { return len(s.byUser) }

func normalizeUsername(u string) string { return strings.ToLower(strings.TrimSpace(u)) }
