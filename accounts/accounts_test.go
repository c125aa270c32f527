package accounts_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chairside/shop-ledger/accounts"
	"github.com/chairside/shop-ledger/ledger"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAccounts(t *testing.T) (*accounts.Store, string) {
	path := filepath.Join(t.TempDir(), "shop_accounts.json")
	st, err := accounts.Open(path, quietLogger())
	require.NoError(t, err)
	return st, path
}

func createBarber(t *testing.T, st *accounts.Store, username, password, display string) accounts.Account {
	t.Helper()
	a, err := st.Create(accounts.CreateInput{
		Username:    username,
		Password:    password,
		Role:        accounts.RoleBarber,
		DisplayName: display,
	})
	require.NoError(t, err)
	return a
}

// =============================================================================
// FIRST-OWNER SYNTHESIS
// =============================================================================

func TestOpen_SynthesizesAndPersistsTheFirstOwner(t *testing.T) {
	// GIVEN: No accounts file at all
	// WHEN: Opening the store, then reopening it
	// THEN: A default owner exists both times, saved to disk the first

	st, path := newTestAccounts(t)

	owner, err := st.Authenticate("owner", "owner")
	require.NoError(t, err)
	assert.True(t, owner.IsOwner())
	assert.Equal(t, "Owner", owner.DisplayName)

	_, err = os.Stat(path)
	require.NoError(t, err, "the synthesized owner must be persisted")

	again, err := accounts.Open(path, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, again.Len())
}

func TestOpen_ExistingOwnerIsNotDuplicated(t *testing.T) {
	st, path := newTestAccounts(t)
	createBarber(t, st, "david", "secret", "David")

	again, err := accounts.Open(path, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, again.Len(), "reopening must not mint another owner")
}

// =============================================================================
// AUTHENTICATION
// =============================================================================

func TestAuthenticate_UsernameIsCaseInsensitive(t *testing.T) {
	st, _ := newTestAccounts(t)
	createBarber(t, st, "David", "secret", "David")

	for _, username := range []string{"david", "DAVID", "  David  "} {
		a, err := st.Authenticate(username, "secret")
		require.NoError(t, err, "username %q", username)
		assert.Equal(t, "david", a.Username, "stored lowercase")
	}
}

func TestAuthenticate_PasswordIsExact(t *testing.T) {
	st, _ := newTestAccounts(t)
	createBarber(t, st, "david", "secret", "David")

	_, err := st.Authenticate("david", "SECRET")
	assert.ErrorIs(t, err, accounts.ErrInvalidCredentials)
}

func TestAuthenticate_UnknownUserAndWrongPasswordFailIdentically(t *testing.T) {
	// GIVEN: One real account
	// WHEN: Logging in with a wrong password vs. an unknown username
	// THEN: Both fail with the same error, so a caller cannot probe for
	//       which usernames exist

	st, _ := newTestAccounts(t)
	createBarber(t, st, "david", "secret", "David")

	_, wrongPass := st.Authenticate("david", "nope")
	_, unknownUser := st.Authenticate("ghost", "nope")

	assert.ErrorIs(t, wrongPass, accounts.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, accounts.ErrInvalidCredentials)
	assert.EqualError(t, wrongPass, unknownUser.Error())
}

// =============================================================================
// CREATE
// =============================================================================

func TestCreate_NormalizesUsernameAndDisplayName(t *testing.T) {
	st, _ := newTestAccounts(t)

	a := createBarber(t, st, "  MARIA  ", "pw", "maria g")
	assert.Equal(t, "maria", a.Username)
	assert.Equal(t, "Maria G", a.DisplayName,
		"display name is title-cased so it meets Barber_Name on equal terms")
}

func TestCreate_DuplicateUsernameRejected(t *testing.T) {
	st, _ := newTestAccounts(t)
	createBarber(t, st, "david", "pw", "David")

	_, err := st.Create(accounts.CreateInput{
		Username:    "DAVID",
		Password:    "other",
		Role:        accounts.RoleBarber,
		DisplayName: "Other David",
	})
	assert.ErrorIs(t, err, accounts.ErrUsernameTaken,
		"case variants are the same username")
}

func TestCreate_RejectsBadInput(t *testing.T) {
	st, _ := newTestAccounts(t)

	cases := []accounts.CreateInput{
		{Username: "", Password: "pw", Role: accounts.RoleBarber, DisplayName: "X"},
		{Username: "x", Password: "", Role: accounts.RoleBarber, DisplayName: "X"},
		{Username: "x", Password: "pw", Role: "manager", DisplayName: "X"},
		{Username: "x", Password: "pw", Role: accounts.RoleBarber, DisplayName: ""},
	}
	for i, in := range cases {
		_, err := st.Create(in)
		assert.Error(t, err, "case %d", i)
	}
}

func TestCreate_PersistsAcrossReopen(t *testing.T) {
	st, path := newTestAccounts(t)
	createBarber(t, st, "david", "secret", "David")

	again, err := accounts.Open(path, quietLogger())
	require.NoError(t, err)

	a, err := again.Authenticate("david", "secret")
	require.NoError(t, err)
	assert.Equal(t, accounts.RoleBarber, a.Role)
	assert.Equal(t, "David", a.DisplayName)
}

// =============================================================================
// DELETE - Owners are protected
// =============================================================================

func TestDelete_BarberIsRemovedAndPersisted(t *testing.T) {
	st, path := newTestAccounts(t)
	createBarber(t, st, "david", "secret", "David")

	require.NoError(t, st.Delete("DAVID"))
	_, err := st.Authenticate("david", "secret")
	assert.ErrorIs(t, err, accounts.ErrInvalidCredentials)

	again, err := accounts.Open(path, quietLogger())
	require.NoError(t, err)
	_, ok := again.Get("david")
	assert.False(t, ok)
}

func TestDelete_OwnerIsRefused(t *testing.T) {
	st, _ := newTestAccounts(t)

	err := st.Delete("owner")
	assert.ErrorIs(t, err, accounts.ErrOwnerUndeletable)

	_, authErr := st.Authenticate("owner", "owner")
	assert.NoError(t, authErr, "the owner must still be there")
}

func TestDelete_UnknownUsername(t *testing.T) {
	st, _ := newTestAccounts(t)
	assert.ErrorIs(t, st.Delete("ghost"), accounts.ErrAccountNotFound)
}

// =============================================================================
// LISTING AND THE LEDGER CONTRACT
// =============================================================================

func TestList_SortedByUsername(t *testing.T) {
	st, _ := newTestAccounts(t)
	createBarber(t, st, "zeke", "pw", "Zeke")
	createBarber(t, st, "anna", "pw", "Anna")

	list := st.List()
	require.Len(t, list, 3) // two barbers plus the synthesized owner
	assert.Equal(t, "anna", list[0].Username)
	assert.Equal(t, "owner", list[1].Username)
	assert.Equal(t, "zeke", list[2].Username)
}

func TestAccount_ActorCarriesRoleAndDisplayName(t *testing.T) {
	st, _ := newTestAccounts(t)
	barber := createBarber(t, st, "david", "pw", "David")

	actor := barber.Actor()
	assert.Equal(t, ledger.ActorBarber, actor.Role)
	assert.Equal(t, "David", actor.DisplayName)
	assert.False(t, actor.IsOwner())

	owner, err := st.Authenticate("owner", "owner")
	require.NoError(t, err)
	assert.True(t, owner.Actor().IsOwner())
}

func TestAccountsFile_IsTheDocumentedShape(t *testing.T) {
	// The file is hand-editable by design: a JSON object keyed by
	// lowercase username with password, role and display_name fields.
	st, path := newTestAccounts(t)
	createBarber(t, st, "david", "secret", "David")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, `"david"`)
	assert.Contains(t, content, `"password"`)
	assert.Contains(t, content, `"role"`)
	assert.Contains(t, content, `"display_name"`)
	assert.Contains(t, content, `"secret"`, "passwords are stored in plain text, a documented limitation")
}
