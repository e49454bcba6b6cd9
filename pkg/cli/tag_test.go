package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mchmarny/drafttag/pkg/config"
	"github.com/mchmarny/drafttag/pkg/data"
	"github.com/mchmarny/drafttag/pkg/draft"
	"github.com/mchmarny/drafttag/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testConfig(in, out, format string) *config.Config {
	return &config.Config{
		Input:     in,
		Output:    out,
		Delimiter: ",",
		Format:    format,
		Options:   draft.DefaultOptions(),
	}
}

func TestRunTag_Text(t *testing.T) {
	in := writeInput(t)
	out := filepath.Join(t.TempDir(), "nested", "tagged.csv")

	var buf bytes.Buffer
	require.NoError(t, runTag(context.Background(), testConfig(in, out, config.FormatText), &buf))

	s := buf.String()
	assert.Contains(t, s, "Loaded: "+in)
	assert.Contains(t, s, "Wrote:  ")
	assert.Contains(t, s, "rows: 5 | y_weak coverage: 0.6000 | counts: {1: 2, 0: 1, null: 2}")

	tagged, err := table.Load(out, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, tagged.Len())
	for _, c := range []string{
		draft.ColOverallPickNum, draft.ColPickTier, draft.ColPosGroup,
		draft.ColOrgQuartile, draft.ColWeakLabel, draft.ColGoldLabel,
	} {
		assert.True(t, tagged.Has(c), c)
	}
	assert.Equal(t, []string{"1", "1", "", "0", ""}, tagged.Values(draft.ColWeakLabel))
}

func TestRunTag_JSON(t *testing.T) {
	in := writeInput(t)
	out := filepath.Join(t.TempDir(), "tagged.csv")

	var buf bytes.Buffer
	require.NoError(t, runTag(context.Background(), testConfig(in, out, config.FormatJSON), &buf))

	var r draft.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &r))
	assert.Equal(t, 5, r.Rows)
	assert.Equal(t, r.Rows, r.Counts.Total())
	assert.Equal(t, table.EncodingUTF8, r.Encoding)
	assert.NotEmpty(t, r.RunID)
}

func TestRunTag_YAMLToSQLite(t *testing.T) {
	in := writeInput(t)
	out := filepath.Join(t.TempDir(), "tagged.db")

	var buf bytes.Buffer
	require.NoError(t, runTag(context.Background(), testConfig(in, out, config.FormatYAML), &buf))

	var r draft.Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &r))
	assert.Equal(t, 5, r.Rows)

	db, err := data.GetDB(out)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM draft_record`).Scan(&count))
	assert.Equal(t, 5, count)
}

func TestRunTag_RemoteInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(draftCSV))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "tagged.csv")
	var buf bytes.Buffer
	require.NoError(t, runTag(context.Background(), testConfig(srv.URL+"/nhldraft.csv", out, config.FormatText), &buf))
	assert.Contains(t, buf.String(), "rows: 5")
}

func TestRunTag_MissingRequiredColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, writeFile(path, "overall_pick,team\n1,A\n"))

	var buf bytes.Buffer
	err := runTag(context.Background(), testConfig(path, filepath.Join(t.TempDir(), "o.csv"), config.FormatText), &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, table.ErrMissingColumn)
	assert.Empty(t, buf.String())
}

func TestEncode(t *testing.T) {
	v := map[string]int{"rows": 3}

	var buf bytes.Buffer
	require.NoError(t, encode(&buf, config.FormatJSON, v))
	assert.JSONEq(t, `{"rows": 3}`, buf.String())

	buf.Reset()
	require.NoError(t, encode(&buf, config.FormatYAML, v))
	assert.Equal(t, "rows: 3\n", buf.String())
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
