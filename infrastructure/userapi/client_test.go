package userapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidateReturnsTokenAndUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/user/validate" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("user_phone"); got != "2001" {
			t.Errorf("expected user_phone=2001, got %s", got)
		}
		_, _ = w.Write([]byte(`{"token":"tok-2001","user":{"user_name":"Ivo","user_role":"inbound"}}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL).Validate(context.Background(), "2001")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Token != "tok-2001" || res.User.UserName != "Ivo" || res.User.UserRole != "inbound" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.User.UserPhone != "2001" {
		t.Fatalf("expected phone backfilled from the request, got %q", res.User.UserPhone)
	}
}

func TestValidateRejectsTokenlessResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"user_name":"Ivo"}}`))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Validate(context.Background(), "2001"); err == nil {
		t.Fatalf("expected error for response without token")
	}
}

func TestValidateUnknownOperatorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Validate(context.Background(), "9999"); err == nil {
		t.Fatalf("expected error for unknown operator")
	}
}

func TestListUsersToleratesEnvelopeAndBareArray(t *testing.T) {
	for _, body := range []string{
		`{"records":[{"user_name":"Ivo","user_phone":"2001","user_role":"inbound"}]}`,
		`[{"user_name":"Ivo","user_phone":"2001","user_role":"inbound"}]`,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer tok" {
				t.Errorf("expected bearer token, got %q", got)
			}
			_, _ = w.Write([]byte(body))
		}))

		users, err := NewClient(srv.URL).ListUsers(context.Background(), "tok")
		srv.Close()
		if err != nil {
			t.Fatalf("list users: %v", err)
		}
		if len(users) != 1 || users[0].UserPhone != "2001" {
			t.Fatalf("unexpected users for body %s: %+v", body, users)
		}
	}
}

func TestUpdateUserRolePatchesDirectory(t *testing.T) {
	var gotMethod, gotPhone, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPhone = r.URL.Query().Get("user_phone")
		buf := make([]byte, 256)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).UpdateUserRole(context.Background(), "tok", "2001", "picking"); err != nil {
		t.Fatalf("update role: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPhone != "2001" {
		t.Fatalf("unexpected request: %s phone=%s", gotMethod, gotPhone)
	}
	if gotBody != `{"user_role":"picking"}` {
		t.Fatalf("unexpected body: %s", gotBody)
	}
}
