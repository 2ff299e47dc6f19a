package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const randomGridCSV = "position,cell_value\nA1,0.5\nA2,1.5\nB1,2.0\n"

func runAugmentCmd(t *testing.T, opts *RootOptions, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewAugmentCommand(opts)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// readCSVRecords returns the header and data records of a CSV file.
func readCSVRecords(t *testing.T, path string) ([]string, [][]string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)
	return records[0], records[1:]
}

// assertFaceRows checks that the last four columns of every record hold
// exactly two integers in [1, 5] and two empty cells.
func assertFaceRows(t *testing.T, records [][]string) {
	t.Helper()
	for i, rec := range records {
		require.GreaterOrEqual(t, len(rec), 4)
		filled := 0
		for _, cell := range rec[len(rec)-4:] {
			if cell == "" {
				continue
			}
			filled++
			v, err := strconv.Atoi(cell)
			require.NoError(t, err, "row %d: face value %q", i, cell)
			assert.GreaterOrEqual(t, v, 1)
			assert.LessOrEqual(t, v, 5)
		}
		assert.Equal(t, 2, filled, "row %d", i)
	}
}

func TestAugment_OverwritesInput(t *testing.T) {
	csvPath := writeTestCSV(t, "grid_random.csv", randomGridCSV)

	out, stderr, err := runAugmentCmd(t, &RootOptions{Format: "text"}, "--seed", "42", csvPath)
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, "Written 3 rows with iscc1..iscc4 to "+csvPath+"\n", out)

	header, records := readCSVRecords(t, csvPath)
	assert.Equal(t, []string{"position", "cell_value", "iscc1", "iscc2", "iscc3", "iscc4"}, header)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"A1", "0.5"}, records[0][:2])
	assert.Equal(t, []string{"A2", "1.5"}, records[1][:2])
	assert.Equal(t, []string{"B1", "2.0"}, records[2][:2])
	assertFaceRows(t, records)
}

func TestAugment_OutputFlag(t *testing.T) {
	csvPath := writeTestCSV(t, "grid_random.csv", randomGridCSV)
	outPath := filepath.Join(t.TempDir(), "faces.csv")

	_, _, err := runAugmentCmd(t, &RootOptions{Format: "text"}, "-o", outPath, "--seed", "3", csvPath)
	require.NoError(t, err)

	original, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, randomGridCSV, string(original), "input must be untouched")

	header, records := readCSVRecords(t, outPath)
	assert.Len(t, header, 6)
	require.Len(t, records, 3)
	assertFaceRows(t, records)
}

func TestAugment_SeedIsReproducible(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeTestCSV(t, "grid_random.csv", randomGridCSV)
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")

	_, _, err := runAugmentCmd(t, &RootOptions{Format: "text"}, "--seed", "11", "-o", first, csvPath)
	require.NoError(t, err)
	_, _, err = runAugmentCmd(t, &RootOptions{Format: "text"}, "--seed", "11", "-o", second, csvPath)
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestAugment_Prefix(t *testing.T) {
	csvPath := writeTestCSV(t, "grid_random.csv", randomGridCSV)

	out, _, err := runAugmentCmd(t, &RootOptions{Format: "text"}, "--prefix", "face", "--seed", "1", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "face1..face4")

	header, _ := readCSVRecords(t, csvPath)
	assert.Equal(t, []string{"face1", "face2", "face3", "face4"}, header[2:])
}

func TestAugment_HeaderOnly(t *testing.T) {
	csvPath := writeTestCSV(t, "header.csv", "position,cell_value\n")

	out, _, err := runAugmentCmd(t, &RootOptions{Format: "text"}, "--seed", "5", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Written 0 rows")

	header, records := readCSVRecords(t, csvPath)
	assert.Len(t, header, 6)
	assert.Empty(t, records)
}

func TestAugment_JSONOutput(t *testing.T) {
	csvPath := writeTestCSV(t, "grid_random.csv", randomGridCSV)

	out, _, err := runAugmentCmd(t, &RootOptions{Format: "json"}, "--seed", "9", csvPath)
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   AugmentResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Data.Rows)
	assert.Equal(t, 6, resp.Data.Columns)
	assert.Equal(t, []string{"iscc1", "iscc2", "iscc3", "iscc4"}, resp.Data.Faces)
	assert.Equal(t, csvPath, resp.Data.Output)
}

func TestAugment_Failures(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing.csv")

		out, stderr, err := runAugmentCmd(t, &RootOptions{Format: "text"}, missing)
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Empty(t, out)
		assert.Contains(t, stderr, "input file not found: "+missing)

		_, statErr := os.Stat(missing)
		assert.True(t, os.IsNotExist(statErr), "no output file should be created")
	})

	t.Run("malformed input", func(t *testing.T) {
		csvPath := writeTestCSV(t, "bad.csv", "a,b\n1,\"unterminated\n")

		_, stderr, err := runAugmentCmd(t, &RootOptions{Format: "text"}, csvPath)
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, stderr, "failed to load CSV")
	})

	t.Run("input not valid UTF-8", func(t *testing.T) {
		content := "position,label\nA1,caf\xe9\n"
		csvPath := writeTestCSV(t, "latin1.csv", content)

		out, stderr, err := runAugmentCmd(t, &RootOptions{Format: "text"}, "--seed", "1", csvPath)
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Empty(t, out)
		assert.Contains(t, stderr, "failed to load CSV")
		assert.Contains(t, stderr, "invalid UTF-8")

		onDisk, readErr := os.ReadFile(csvPath)
		require.NoError(t, readErr)
		assert.Equal(t, []byte(content), onDisk, "input must be left byte-for-byte unchanged")
	})

	t.Run("empty input", func(t *testing.T) {
		csvPath := writeTestCSV(t, "empty.csv", "")

		_, stderr, err := runAugmentCmd(t, &RootOptions{Format: "text"}, csvPath)
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, stderr, "failed to load CSV")
	})

	t.Run("json format still reports on stderr", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing.csv")

		out, stderr, err := runAugmentCmd(t, &RootOptions{Format: "json"}, missing)
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Equal(t, "Error ["+ErrCodeNotFound+"]: input file not found: "+missing+"\n", stderr)

		var resp CLIResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "error", resp.Status)
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("unwritable output", func(t *testing.T) {
		csvPath := writeTestCSV(t, "grid_random.csv", randomGridCSV)
		outPath := filepath.Join(t.TempDir(), "no", "such", "dir", "out.csv")

		_, stderr, err := runAugmentCmd(t, &RootOptions{Format: "text"}, "-o", outPath, "--seed", "1", csvPath)
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, stderr, "failed to write CSV")
	})

	t.Run("face columns already present", func(t *testing.T) {
		csvPath := writeTestCSV(t, "grid.csv", "position,iscc2\nA1,1\n")

		_, stderr, err := runAugmentCmd(t, &RootOptions{Format: "text"}, "--seed", "1", csvPath)
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, stderr, "Error ["+ErrCodeFaceColumns+"]")
		assert.Contains(t, stderr, "iscc2")
	})

	t.Run("negative seed", func(t *testing.T) {
		csvPath := writeTestCSV(t, "grid_random.csv", randomGridCSV)

		_, stderr, err := runAugmentCmd(t, &RootOptions{Format: "text"}, "--seed", "-4", csvPath)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, stderr, "invalid seed -4")
	})

	t.Run("no arguments", func(t *testing.T) {
		_, _, err := runAugmentCmd(t, &RootOptions{Format: "text"})
		require.Error(t, err)
	})
}

type fixedSource struct {
	values []int
	next   int
}

func (s *fixedSource) IntN(n int) int {
	v := s.values[s.next%len(s.values)] % n
	s.next++
	return v
}

func TestAugment_InjectedSource(t *testing.T) {
	csvPath := writeTestCSV(t, "grid.csv", "position,cell_value\nA1,0.5\n")
	outPath := filepath.Join(t.TempDir(), "out.csv")

	// Sample draws 0 then 0 (faces 1 and 2), values draw 4 then 0 (5 and 1).
	opts := &AugmentOptions{
		RootOptions: &RootOptions{Format: "text"},
		Output:      outPath,
		Source:      &fixedSource{values: []int{0, 0, 4, 0}},
	}
	cmd := NewAugmentCommand(opts.RootOptions)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, runAugment(opts, csvPath, cmd))

	_, records := readCSVRecords(t, outPath)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"A1", "0.5", "5", "1", "", ""}, records[0])
}

func TestAugment_RecordsRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	csvPath := writeTestCSV(t, "grid_random.csv", randomGridCSV)
	outPath := filepath.Join(t.TempDir(), "out.csv")

	_, _, err := runAugmentCmd(t, &RootOptions{Format: "text", Ledger: dbPath}, "-o", outPath, "--seed", "2", csvPath)
	require.NoError(t, err)

	runs := readLedger(t, dbPath)
	require.Len(t, runs, 1)
	assert.Equal(t, "augment", runs[0].Command)
	assert.Equal(t, csvPath, runs[0].InputPath)
	assert.Equal(t, outPath, runs[0].OutputPath)
	assert.Equal(t, 3, runs[0].Rows)
	assert.Equal(t, 6, runs[0].Columns)
}
