package admin

import (
	gocontext "context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	sessioncontext "nanokiosk/frontend/shared/context"
	"nanokiosk/infrastructure/audit"
	"nanokiosk/infrastructure/nanostore"
	"nanokiosk/infrastructure/userapi"
	"nanokiosk/models"
)

type fakeDirectory struct {
	users     []userapi.User
	listErr   error
	updateErr error

	updatedPhone string
	updatedRole  string
}

func (f *fakeDirectory) ListUsers(_ gocontext.Context, _ string) ([]userapi.User, error) {
	return f.users, f.listErr
}

func (f *fakeDirectory) UpdateUserRole(_ gocontext.Context, _, userPhone, role string) error {
	f.updatedPhone = userPhone
	f.updatedRole = role
	return f.updateErr
}

func adminRequest(method, target, body string, unlocked bool) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	s := models.Session{ID: "sess-1", UserID: "1234", Username: "Avery", UserRole: "admin", AuthToken: "tok", AdminUnlocked: unlocked}
	return r.WithContext(sessioncontext.NewContextWithSession(r.Context(), s))
}

func TestRequireUnlockedRedirectsLockedSessions(t *testing.T) {
	called := false
	h := RequireUnlocked(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, adminRequest(http.MethodGet, "/kiosk/admin/users", "", false))

	if called {
		t.Fatal("locked session reached the admin screen")
	}
	if loc := rec.Header().Get("Location"); loc != "/kiosk/admin" {
		t.Fatalf("Location = %q, want /kiosk/admin", loc)
	}
}

func TestRequireUnlockedPassesUnlockedSessions(t *testing.T) {
	called := false
	h := RequireUnlocked(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, adminRequest(http.MethodGet, "/kiosk/admin/users", "", true))

	if !called {
		t.Fatal("unlocked session blocked")
	}
}

func TestAdminHomeShowsPINEntryWhenLocked(t *testing.T) {
	rec := httptest.NewRecorder()
	AdminHomeHandler().ServeHTTP(rec, adminRequest(http.MethodGet, "/kiosk/admin", "", false))

	body := rec.Body.String()
	if !strings.Contains(body, `name="pin"`) {
		t.Error("locked admin home has no PIN input")
	}
	if strings.Contains(body, "/kiosk/admin/users") {
		t.Error("locked admin home leaks the menu")
	}
}

func TestAdminHomeShowsMenuWhenUnlocked(t *testing.T) {
	rec := httptest.NewRecorder()
	AdminHomeHandler().ServeHTTP(rec, adminRequest(http.MethodGet, "/kiosk/admin", "", true))

	body := rec.Body.String()
	if !strings.Contains(body, "/kiosk/admin/users") || !strings.Contains(body, "/kiosk/admin/history") {
		t.Error("unlocked admin home is missing menu entries")
	}
}

func TestUsersPageListsDirectory(t *testing.T) {
	dir := &fakeDirectory{users: []userapi.User{
		{UserName: "Avery", UserPhone: "1234", UserRole: "inbound"},
		{UserName: "Kai", UserPhone: "5678", UserRole: "picking"},
	}}
	rec := httptest.NewRecorder()
	UsersPageQueryHandler(dir).ServeHTTP(rec, adminRequest(http.MethodGet, "/kiosk/admin/users", "", true))

	body := rec.Body.String()
	if !strings.Contains(body, "Avery") || !strings.Contains(body, "5678") {
		t.Error("users page missing directory entries")
	}
}

func TestUpdateUserRoleValidatesRole(t *testing.T) {
	dir := &fakeDirectory{}
	form := url.Values{"user_phone": {"1234"}, "role": {"superuser"}}
	rec := httptest.NewRecorder()
	UpdateUserRoleCommandHandler(nil, dir, audit.NewService()).ServeHTTP(rec,
		adminRequest(http.MethodPost, "/kiosk/admin/users/role", form.Encode(), true))

	if dir.updatedPhone != "" {
		t.Fatal("invalid role reached the user directory")
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=") {
		t.Fatalf("Location = %q, want error redirect", loc)
	}
}

func TestUpdateUserRolePatchesDirectory(t *testing.T) {
	dir := &fakeDirectory{}
	form := url.Values{"user_phone": {"1234"}, "role": {"picking"}}
	rec := httptest.NewRecorder()
	UpdateUserRoleCommandHandler(nil, dir, audit.NewService()).ServeHTTP(rec,
		adminRequest(http.MethodPost, "/kiosk/admin/users/role", form.Encode(), true))

	if dir.updatedPhone != "1234" || dir.updatedRole != "picking" {
		t.Fatalf("directory update = %q %q", dir.updatedPhone, dir.updatedRole)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "status=") {
		t.Fatalf("Location = %q, want status redirect", loc)
	}
}

func TestUpdateUserRoleSurfacesDirectoryFailure(t *testing.T) {
	dir := &fakeDirectory{updateErr: errors.New("boom")}
	form := url.Values{"user_phone": {"1234"}, "role": {"picking"}}
	rec := httptest.NewRecorder()
	UpdateUserRoleCommandHandler(nil, dir, audit.NewService()).ServeHTTP(rec,
		adminRequest(http.MethodPost, "/kiosk/admin/users/role", form.Encode(), true))

	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "error=") {
		t.Fatalf("Location = %q, want error redirect", loc)
	}
}

func TestRenderHistoryPDFProducesDocument(t *testing.T) {
	transactions := []nanostore.Transaction{
		{ID: "t1", OrderID: "o1", ItemID: "item1", TransactionType: "inbound", Quantity: "1"},
		{ID: "t2", OrderID: "o1", ItemID: "item2", TransactionType: "outbound", Quantity: "2"},
	}
	pdfBytes, err := renderHistoryPDF(transactions, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(pdfBytes) == 0 || !strings.HasPrefix(string(pdfBytes[:5]), "%PDF-") {
		t.Fatal("output is not a PDF document")
	}
}

func TestRenderHistoryPDFHandlesEmptyHistory(t *testing.T) {
	pdfBytes, err := renderHistoryPDF(nil, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(pdfBytes) == 0 {
		t.Fatal("empty history produced no document")
	}
}
