package olap_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-profiles/internal/olap"
	"github.com/goliatone/go-profiles/pkg/interfaces"
	"github.com/goliatone/go-profiles/pkg/testsupport"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := testsupport.Fixture(name)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return data
}

func TestNew_DetectsTesseract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cubes" {
			json.NewEncoder(w).Encode(map[string]any{"cubes": []any{}})
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client, err := olap.New(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if client.Flavor() != olap.FlavorTesseract {
		t.Fatalf("flavor = %s, want tesseract", client.Flavor())
	}
}

func TestNew_FallsBackToMondrian(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer server.Close()

	client, err := olap.New(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if client.Flavor() != olap.FlavorMondrian {
		t.Fatalf("flavor = %s, want mondrian", client.Flavor())
	}
}

func TestGetCube(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cubes/acs" {
			w.Write(fixture(t, "cube_tesseract.json"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	client, err := olap.New(context.Background(), server.URL, olap.WithFlavor(olap.FlavorTesseract))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	cube, err := client.GetCube(context.Background(), "acs")
	if err != nil {
		t.Fatalf("get cube: %v", err)
	}
	if cube.Name != "acs" {
		t.Fatalf("cube name = %q", cube.Name)
	}

	dim := cube.Dimension("Geography")
	if dim == nil {
		t.Fatal("Geography dimension missing")
	}
	levels := dim.Hierarchies[0].Levels
	if len(levels) != 2 || levels[1].Name != "State" {
		t.Fatalf("unexpected levels: %+v", levels)
	}
	if levels[1].Cube != "acs" || levels[1].Dimension != "Geography" {
		t.Fatalf("level back references not filled: %+v", levels[1])
	}
}

func TestGetMembers_TesseractEndpointAndNumericKeys(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/members" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("cube") != "acs" || r.URL.Query().Get("level") != "State" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if r.URL.Query().Get("locale") != "es" {
			t.Errorf("locale not forwarded: %s", r.URL.RawQuery)
		}
		w.Write(fixture(t, "members_tesseract.json"))
	}))
	defer server.Close()

	client, err := olap.New(context.Background(), server.URL, olap.WithFlavor(olap.FlavorTesseract))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	members, err := client.GetMembers(context.Background(), interfaces.CubeLevel{
		Name: "State", Hierarchy: "Geography", Dimension: "Geography", Cube: "acs",
	}, interfaces.MemberQuery{Locale: "es"})
	if err != nil {
		t.Fatalf("get members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].Key != "42" {
		t.Fatalf("numeric key not stringified: %q", members[0].Key)
	}
	if members[1].Key != "04000US02" {
		t.Fatalf("id fallback key = %q", members[1].Key)
	}
}

func TestGetMembers_MondrianPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"members": []map[string]any{}})
	}))
	defer server.Close()

	client, err := olap.New(context.Background(), server.URL, olap.WithFlavor(olap.FlavorMondrian))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, err = client.GetMembers(context.Background(), interfaces.CubeLevel{
		Name: "State", Hierarchy: "Geography", Dimension: "Geography", Cube: "acs",
	}, interfaces.MemberQuery{})
	if err != nil {
		t.Fatalf("get members: %v", err)
	}

	want := "/cubes/acs/dimensions/Geography/hierarchies/Geography/levels/State/members"
	if gotPath != want {
		t.Fatalf("path = %q, want %q", gotPath, want)
	}
}

func TestExecQuery_Tesseract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/data.jsonrecords") {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("drilldowns") != "State" || q.Get("measures") != "Population" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write(fixture(t, "aggregate_tesseract.json"))
	}))
	defer server.Close()

	client, err := olap.New(context.Background(), server.URL, olap.WithFlavor(olap.FlavorTesseract))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	rows, err := client.ExecQuery(context.Background(), interfaces.AggregateQuery{
		Cube:    "acs",
		Level:   interfaces.CubeLevel{Name: "State", Hierarchy: "Geography", Dimension: "Geography", Cube: "acs"},
		Measure: "Population",
	})
	if err != nil {
		t.Fatalf("exec query: %v", err)
	}
	if len(rows) != 1 || rows[0]["ID State"] != "04000US01" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestExecQuery_UpstreamErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "cube exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := olap.New(context.Background(), server.URL, olap.WithFlavor(olap.FlavorTesseract))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, err = client.ExecQuery(context.Background(), interfaces.AggregateQuery{
		Cube:    "acs",
		Level:   interfaces.CubeLevel{Name: "State"},
		Measure: "Population",
	})
	if err == nil {
		t.Fatal("expected error from upstream failure")
	}
}
