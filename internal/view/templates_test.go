package view_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inventorypro/inventorypro-web/internal/shared"
	"github.com/inventorypro/inventorypro-web/internal/view"
	_ "github.com/inventorypro/inventorypro-web/testing"
)

func TestEngineParsesAllTemplates(t *testing.T) {
	if _, err := view.NewEngine(); err != nil {
		t.Fatalf("parse templates: %v", err)
	}
}

func TestRenderLoginPage(t *testing.T) {
	engine, err := view.NewEngine()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	res := httptest.NewRecorder()
	err = engine.Render(res, "pages/login.html", view.TemplateData{
		Title:     "Sign In",
		CSRFToken: "tok123",
		Data: struct {
			Form   struct{ Username, Password string }
			Errors map[string]string
		}{},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	body := res.Body.String()
	if !strings.Contains(body, "<form") || !strings.Contains(body, "tok123") {
		t.Fatalf("login page incomplete:\n%s", body)
	}
	if got := res.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Fatalf("unexpected content type %q", got)
	}
}

func TestRenderShowsFlashAndNav(t *testing.T) {
	engine, err := view.NewEngine()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	res := httptest.NewRecorder()
	err = engine.Render(res, "pages/manager/staff.html", view.TemplateData{
		Title:       "Register Staff",
		CSRFToken:   "tok123",
		Flash:       &shared.FlashMessage{Kind: "success", Message: "Staff member registered successfully"},
		Account:     &shared.Account{Username: "jane", Role: shared.RoleManager, BranchID: 1, OrgID: 1, OrgName: "Acme"},
		CurrentPath: "/manager/staff",
		Data: struct {
			HasScope bool
			Form     struct{ Username, Password string }
			Errors   map[string]string
		}{HasScope: true},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	body := res.Body.String()
	for _, want := range []string{"Staff member registered successfully", "jane", "Acme", "/manager/sales"} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}
