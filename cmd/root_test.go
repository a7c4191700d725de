package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/locseed/internal/config"
	"github.com/sells-group/locseed/internal/fetcher"
	"github.com/sells-group/locseed/internal/loader"
	"github.com/sells-group/locseed/internal/model"
	"github.com/sells-group/locseed/internal/source"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"seed", "sources", "fallback"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "locseed", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestSeedCommand_Flags(t *testing.T) {
	for _, name := range []string{"fallback-only", "dry-run"} {
		flag := seedCmd.Flags().Lookup(name)
		require.NotNil(t, flag, "seed should have --%s flag", name)
		assert.Equal(t, "false", flag.DefValue)
	}
}

func TestSourcesCommand_Flags(t *testing.T) {
	flag := sourcesCmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "text", flag.DefValue)
}

type fixedStrategy struct {
	name    string
	records []model.LocationRecord
	err     error
}

func (s fixedStrategy) Name() string { return s.name }

func (s fixedStrategy) FetchAndParse(context.Context) ([]model.LocationRecord, error) {
	return s.records, s.err
}

func sqliteConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{URL: "sqlite::memory:"},
		Fetch:    config.FetchConfig{TimeoutSecs: 5},
	}
}

func TestRunSeed_FromRemoteSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/down":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			_, _ = w.Write([]byte("Postnummer\tPoststed\tKommunenummer\tKommune\n" +
				"0150\tOSLO\t0301\tOSLO\n" +
				"5003\tBERGEN\t4601\tBERGEN\n"))
		}
	}))
	defer srv.Close()

	descs := []source.Descriptor{
		{Name: "down", URL: srv.URL + "/down", Format: source.Delimited},
		{Name: "register", URL: srv.URL + "/register.txt", Format: source.Delimited},
	}
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{})

	var out bytes.Buffer
	err := runSeed(context.Background(), &out, sqliteConfig(), seedOptions{}, source.Remotes(descs, f), openStore)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Trying source: down")
	assert.Contains(t, s, "Failed to fetch from down")
	assert.Contains(t, s, "Parsed 2 records from register")
	assert.Contains(t, s, "Successfully inserted 2 Norwegian location records!")
	assert.Contains(t, s, "- Unique cities: 2")
	assert.NotContains(t, s, "fallback")
}

func TestRunSeed_FallsBackWhenAllSourcesFail(t *testing.T) {
	strategies := []source.Strategy{
		fixedStrategy{name: "a", err: errors.New("timeout")},
		fixedStrategy{name: "b"},
	}

	var out bytes.Buffer
	err := runSeed(context.Background(), &out, sqliteConfig(), seedOptions{}, strategies, openStore)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Source b returned no records")
	assert.Contains(t, s, "Using fallback catalog of 25 Norwegian cities")
	assert.Contains(t, s, "- Total records: 25")
	assert.Contains(t, s, "- Unique counties: 12")
	assert.Contains(t, s, "completed successfully")
}

func TestRunSeed_FallbackOnlySkipsSources(t *testing.T) {
	called := false
	strategies := []source.Strategy{&countingStrategy{called: &called}}

	var out bytes.Buffer
	err := runSeed(context.Background(), &out, sqliteConfig(), seedOptions{FallbackOnly: true}, strategies, openStore)
	require.NoError(t, err)

	assert.False(t, called)
	assert.Contains(t, out.String(), "- Total records: 25")
}

func TestRunSeed_DryRunDoesNotOpenStore(t *testing.T) {
	opened := false
	open := func(context.Context, string) (loader.Store, func(), error) {
		opened = true
		return nil, nil, errors.New("should not be called")
	}

	var out bytes.Buffer
	err := runSeed(context.Background(), &out, sqliteConfig(), seedOptions{DryRun: true, FallbackOnly: true}, nil, open)
	require.NoError(t, err)

	assert.False(t, opened)
	assert.Contains(t, out.String(), "Dry run: 25 records from fallback catalog")
}

func TestRunSeed_ConnectionFailure(t *testing.T) {
	open := func(context.Context, string) (loader.Store, func(), error) {
		return nil, nil, errors.New("dial tcp: connection refused")
	}

	var out bytes.Buffer
	err := runSeed(context.Background(), &out, sqliteConfig(), seedOptions{FallbackOnly: true}, nil, open)
	require.Error(t, err)

	var connErr *loader.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.NotContains(t, out.String(), "Successfully inserted")
}

func TestRunSeed_TransactionFailure(t *testing.T) {
	// A SQLite database without the table makes the clear step fail.
	open := func(ctx context.Context, _ string) (loader.Store, func(), error) {
		store, err := loader.OpenSQLite(":memory:")
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}

	var out bytes.Buffer
	err := runSeed(context.Background(), &out, sqliteConfig(), seedOptions{FallbackOnly: true}, nil, open)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clear")
	assert.NotContains(t, out.String(), "completed successfully")
}

type countingStrategy struct {
	called *bool
}

func (s *countingStrategy) Name() string { return "counting" }

func (s *countingStrategy) FetchAndParse(context.Context) ([]model.LocationRecord, error) {
	*s.called = true
	return nil, nil
}

func TestPrintSources_Text(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printSources(&out, source.DefaultSources(), "text"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "NAME")
	assert.Contains(t, lines[1], "PostNord CSV")
	assert.Contains(t, lines[1], "windows-1252")
	assert.Contains(t, lines[2], "Alternative postal codes")
	assert.Contains(t, lines[2], "utf-8")
}

func TestPrintSources_YAML(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printSources(&out, source.DefaultSources(), "yaml"))

	var doc struct {
		Sources []source.Descriptor `yaml:"sources"`
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, source.DefaultSources(), doc.Sources)
}

func TestPrintSources_UnknownOutput(t *testing.T) {
	err := printSources(&bytes.Buffer{}, nil, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output")
}

func TestWriteCatalog(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeCatalog(&out, source.Fallback()))

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 26)
	assert.Equal(t, model.Columns, rows[0])
	assert.Equal(t, "0001", rows[1][0])
	assert.Equal(t, "Oslo", rows[1][1])
	assert.Equal(t, "", rows[1][6])
	assert.Equal(t, "G", rows[1][7])
}
