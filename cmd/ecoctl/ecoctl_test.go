package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Neil-21/eco-bee/internal/adapters/http/api"
	service "github.com/Neil-21/eco-bee/internal/app"
	"github.com/Neil-21/eco-bee/internal/domain/model"
	"github.com/Neil-21/eco-bee/internal/domain/recommend"
	"github.com/Neil-21/eco-bee/pkg/logger"
)

const goldenJSON = `{"entries":{"mobility":{"car":50},"food":{"beef":2},"fashion":{"cotton_shirt":1}}}`

func run(stdin string, args ...string) (string, error) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScoreCmd(t *testing.T) {
	Convey("Given the golden request on stdin", t, func() {
		Convey("When scored as JSON", func() {
			out, err := run(goldenJSON, "score", "-", "--output", "json", "--limit", "2")

			Convey("Then the result grades B with at most two recommendations", func() {
				So(err, ShouldBeNil)
				var res model.ScoringResult
				So(json.Unmarshal([]byte(out), &res), ShouldBeNil)
				So(res.Grade, ShouldEqual, "B")
				So(len(res.Boundaries), ShouldEqual, 9)
				So(len(res.Recommendations), ShouldBeLessThanOrEqualTo, 2)
			})
		})

		Convey("When scored as text", func() {
			out, err := run(goldenJSON, "score", "-")

			Convey("Then a summary is printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Composite: 80.3 (B)")
				So(out, ShouldContainSubstring, "climate")
			})
		})

		Convey("When scored by the legacy engine", func() {
			out, err := run(`{"items":[{"type":"meal","category":"meat-heavy"}]}`, "score", "-", "--engine", "legacy", "-o", "json")

			Convey("Then the flat pressure is returned", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, `"engine_version": "flat/v1"`)
				So(out, ShouldContainSubstring, `"composite": 90`)
			})
		})

		Convey("When the engine is unknown", func() {
			_, err := run(goldenJSON, "score", "-", "--engine", "quantum")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestValidateCmd(t *testing.T) {
	Convey("Given the embedded tables", t, func() {
		out, err := run("", "validate")

		Convey("Then validation passes", func() {
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "tables 2025.10: 9 boundaries")
			So(out, ShouldContainSubstring, "OK")
		})
	})

	Convey("Given a degenerate limits file", t, func() {
		path := filepath.Join(t.TempDir(), "limits.yaml")
		So(os.WriteFile(path, []byte("boundaries:\n  - {id: climate, limit: 0, unit: kg}\n"), 0o600), ShouldBeNil)
		_, err := run("", "validate", "--limits", path)

		Convey("Then validation fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestCatalogCmd(t *testing.T) {
	Convey("Given the embedded catalog", t, func() {
		dir := t.TempDir()
		ctx := context.Background()
		embedded, err := recommend.Load(ctx, "")
		So(err, ShouldBeNil)

		Convey("When exported to SQLite and TOML", func() {
			db := filepath.Join(dir, "catalog.db")
			toml := filepath.Join(dir, "catalog.toml")
			_, err1 := run("", "catalog", "export", recommend.SQLitePrefix+db)
			_, err2 := run("", "catalog", "export", "--from", recommend.SQLitePrefix+db, toml)

			Convey("Then both round-trip the actions", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				c, err := recommend.Load(ctx, toml)
				So(err, ShouldBeNil)
				So(c.Len(), ShouldEqual, embedded.Len())
			})
		})

		Convey("When exported to an unknown format", func() {
			_, err := run("", "catalog", "export", filepath.Join(dir, "catalog.csv"))
			So(err, ShouldWrap, recommend.ErrUnsupportedSource)
		})

		Convey("When listed", func() {
			out, err := run("", "catalog", "list")
			So(err, ShouldBeNil)
			So(strings.Count(out, "\n"), ShouldEqual, embedded.Len())
		})
	})
}

func TestSubmitCmd(t *testing.T) {
	Convey("Given a running server", t, func() {
		svc := service.New(service.WithLogger(logger.Nop()))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		mux := http.NewServeMux()
		api.NewServer(svc, svc, 100).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("When a request is submitted", func() {
			out, err := run(goldenJSON, "submit", "-", "--name", "alice", "--server", srv.URL)

			Convey("Then the participant is ranked", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "alice scored 80.34 (B)")
				So(out, ShouldContainSubstring, "rank 1")
				e, err := svc.Rank(context.Background(), "alice")
				So(err, ShouldBeNil)
				So(e.Grade, ShouldEqual, "B")
			})
		})

		Convey("When the request has no valid entries", func() {
			_, err := run(`{"entries":{"food":{"beef":-2}}}`, "submit", "-", "--name", "bob", "--server", srv.URL)

			Convey("Then the server error is surfaced", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "no_valid_items")
			})
		})

		Convey("When no name is given", func() {
			_, err := run(goldenJSON, "submit", "-", "--server", srv.URL)
			So(err, ShouldNotBeNil)
		})
	})
}
