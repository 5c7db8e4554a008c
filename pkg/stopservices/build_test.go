package stopservices_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
	"github.com/travigo/stopservices/pkg/archive"
	"github.com/travigo/stopservices/pkg/config"
	"github.com/travigo/stopservices/pkg/consolidator"
	"github.com/travigo/stopservices/pkg/publish"
	"github.com/travigo/stopservices/pkg/stopservices"
)

const document = `<?xml version="1.0" encoding="UTF-8"?>
<TransXChange RevisionNumber="1">
  <Operators>
    <Operator id="O1"><NationalOperatorCode>TKT_OID:9</NationalOperatorCode></Operator>
    <Operator id="O2"><NationalOperatorCode>ABCD</NationalOperatorCode></Operator>
  </Operators>
  <Services>
    <Service>
      <ServiceCode>S1</ServiceCode>
      <Lines><Line id="L1"><LineName>12</LineName></Line></Lines>
      <RegisteredOperatorRef>O1</RegisteredOperatorRef>
      <StandardService><Origin>Town</Origin><Destination>City</Destination></StandardService>
    </Service>
    <Service>
      <ServiceCode>S2</ServiceCode>
      <Lines><Line id="L2"><LineName>3</LineName></Line></Lines>
      <RegisteredOperatorRef>O2</RegisteredOperatorRef>
    </Service>
  </Services>
  <JourneyPatternSections>
    <JourneyPatternSection>
      <JourneyPatternTimingLink>
        <From><StopPointRef>490000077F</StopPointRef></From>
        <To><StopPointRef>49</StopPointRef></To>
      </JourneyPatternTimingLink>
    </JourneyPatternSection>
  </JourneyPatternSections>
</TransXChange>`

func writeFixtures(t *testing.T) (string, string, string) {
	t.Helper()
	dir := t.TempDir()

	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	fileWriter, err := writer.Create("bundle/services.xml")
	require.NoError(t, err)
	_, err = fileWriter.Write([]byte(document))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	archiveDir := filepath.Join(dir, "archives")
	require.NoError(t, os.MkdirAll(archiveDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(archiveDir, "a.zip"), buffer.Bytes(), 0o644))

	codeTable := filepath.Join(dir, "noc.csv")
	require.NoError(t, os.WriteFile(codeTable, []byte("NOC Code,Operator Public Name\nABCD,Acme Buses\n"), 0o644))

	overrides := filepath.Join(dir, "overrides.yaml")
	require.NoError(t, os.WriteFile(overrides, []byte("TKT_OID: Bee Network Metroline\n"), 0o644))

	return dir, codeTable, overrides
}

func newRun(dir string, codeTable string, overrides string) config.Run {
	return config.Run{
		Sources:         []string{filepath.Join(dir, "archives")},
		CodeTablePath:   codeTable,
		OverridesPath:   overrides,
		Output:          filepath.Join(dir, "out", "stopservices.json"),
		ShardDirectory:  filepath.Join(dir, "shards"),
		ShardPrefix:     3,
		Workers:         2,
		Timezone:        config.DefaultTimezone,
		Date:            "2024-06-15",
		MetricsTextfile: filepath.Join(dir, "stopservices.prom"),
	}
}

func readOutput(t *testing.T, path string) consolidator.Output {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	output, err := publish.ReadDocument(file)
	require.NoError(t, err)

	return output
}

func TestBuild(t *testing.T) {
	dir, codeTable, overrides := writeFixtures(t)
	run := newRun(dir, codeTable, overrides)

	stats, err := stopservices.Build(context.Background(), run, "run-1", nil)
	require.NoError(t, err)
	require.Equal(t, 2, stats.ServicesRetained)
	require.Equal(t, 2, stats.Stops)

	output := readOutput(t, run.Output)
	require.Equal(t, []consolidator.ResolvedService{
		{Ref: "3", Name: "3", Operator: "Acme Buses", OperatorCode: "ABCD", ServiceCode: "S2"},
		{Ref: "12", Name: "Town - City", Operator: "Bee Network Metroline", OperatorCode: "TKT_OID:9", ServiceCode: "S1"},
	}, output["490000077F"])
	require.Equal(t, output["490000077F"], output["49"])

	require.FileExists(t, filepath.Join(run.ShardDirectory, "490.json"))
	require.FileExists(t, filepath.Join(run.ShardDirectory, "_.json"))
	require.FileExists(t, run.MetricsTextfile)
}

func TestBuildMissingReferenceData(t *testing.T) {
	dir, _, _ := writeFixtures(t)
	run := newRun(dir, filepath.Join(dir, "missing.csv"), filepath.Join(dir, "missing.yaml"))

	_, err := stopservices.Build(context.Background(), run, "run-2", nil)
	require.NoError(t, err)

	output := readOutput(t, run.Output)
	require.Equal(t, "ABCD", output["49"][0].Operator)
	require.Equal(t, "TKT_OID:9", output["49"][1].Operator)
}

func TestBuildSkipsUnopenableArchive(t *testing.T) {
	dir, codeTable, overrides := writeFixtures(t)
	run := newRun(dir, codeTable, overrides)
	run.Sources = append(run.Sources, filepath.Join(dir, "missing.zip"))

	stats, err := stopservices.Build(context.Background(), run, "run-3", nil)
	require.ErrorIs(t, err, archive.ErrArchiveOpen)
	require.Equal(t, 1, stats.ArchivesFailed)
	require.Len(t, readOutput(t, run.Output), 2)
}

func TestBuildNoArchivesOpen(t *testing.T) {
	dir, codeTable, overrides := writeFixtures(t)
	run := newRun(dir, codeTable, overrides)
	run.Sources = []string{filepath.Join(dir, "missing.zip")}

	_, err := stopservices.Build(context.Background(), run, "run-4", nil)
	require.ErrorIs(t, err, stopservices.ErrNoArchives)
	require.ErrorIs(t, err, archive.ErrArchiveOpen)
	require.NoFileExists(t, run.Output)
}

func TestBuildEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	run := newRun(dir, "", "")
	require.NoError(t, os.MkdirAll(run.Sources[0], 0o755))

	_, err := stopservices.Build(context.Background(), run, "run-5", nil)
	require.NoError(t, err)
	require.Empty(t, readOutput(t, run.Output))
}

func TestBuildInvalidConfig(t *testing.T) {
	run := config.Run{}

	_, err := stopservices.Build(context.Background(), run, "run-6", nil)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}
