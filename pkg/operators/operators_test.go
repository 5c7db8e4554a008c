package operators_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/travigo/stopservices/pkg/operators"
)

func TestResolve(t *testing.T) {
	directory := operators.NewDirectory(
		map[string]string{"ABCD": "Acme Buses", "MISL": "Mislabelled Motors"},
		[]operators.Override{
			{Key: "TKT_OID", Name: "Bee Network Metroline"},
			{Key: "MISL", Name: "Corrected Coaches"},
			{Key: "TKT", Name: "Generic Ticketing"},
			{Key: "Old Name Ltd", Name: "New Name"},
		},
	)
	resolver := operators.NewResolver(directory)

	tests := []struct {
		name         string
		code         string
		documentName string
		want         string
	}{
		{name: "prefix override", code: "TKT_OID:9", want: "Bee Network Metroline"},
		{name: "first prefix in declared order", code: "TKT_OTHER", want: "Generic Ticketing"},
		{name: "canonical table", code: "ABCD", want: "Acme Buses"},
		{name: "code override beats canonical table", code: "MISL", documentName: "Whatever", want: "Corrected Coaches"},
		{name: "name override", code: "ZZZZ", documentName: "Old Name Ltd", want: "New Name"},
		{name: "document name", code: "ZZZZ", documentName: "Local Line", want: "Local Line"},
		{name: "raw code", code: "ZZZZ", want: "ZZZZ"},
		{name: "nothing", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, resolver.Resolve(tt.code, tt.documentName))
		})
	}
}

func TestResolveWithoutDirectory(t *testing.T) {
	resolver := operators.NewResolver(nil)

	require.Equal(t, "Local Line", resolver.Resolve("ZZZZ", "Local Line"))
	require.Equal(t, "", resolver.Resolve("", ""))
}

func TestParseCodeTableCSV(t *testing.T) {
	csv := "NOCCODE,OperatorPublicName,VOSA_PSVLicenseName,OpId\n" +
		"ABCD,Acme Buses,ACME BUSES LTD,1\n" +
		"EFGH, Efgh Travel ,EFGH LTD,2\n" +
		"ABCD,Duplicate,DUP,3\n" +
		",No Code,,4\n"

	codes, err := operators.ParseCodeTableCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"ABCD": "Acme Buses", "EFGH": "Efgh Travel"}, codes)
}

func TestParseCodeTableCSVHeaderVariants(t *testing.T) {
	csv := "Noc Code,Operator Trading Name\nXYZ,Xyz Coaches\n"

	codes, err := operators.ParseCodeTableCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"XYZ": "Xyz Coaches"}, codes)
}

func TestParseCodeTableCSVMissingColumns(t *testing.T) {
	_, err := operators.ParseCodeTableCSV(strings.NewReader("Code,Name\nABCD,Acme\n"))
	require.ErrorIs(t, err, operators.ErrColumnsNotFound)

	codes := operators.LoadCodeTable(writeTemp(t, "table.csv", "Code,Name\nABCD,Acme\n"))
	require.Empty(t, codes)
}

func TestParseTravelineData(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<travelinedata generationDate="2024-01-01">
  <NOCTable>
    <NOCTableRecord><NOCCODE>ABCD</NOCCODE><OperatorPublicName>Acme Buses</OperatorPublicName></NOCTableRecord>
    <NOCTableRecord><NOCCODE>LIC</NOCCODE><VOSA_PSVLicenseName>Licensed Only Ltd</VOSA_PSVLicenseName></NOCTableRecord>
  </NOCTable>
</travelinedata>`

	codes := operators.LoadCodeTable(writeTemp(t, "noc.xml", xml))
	require.Equal(t, map[string]string{"ABCD": "Acme Buses", "LIC": "Licensed Only Ltd"}, codes)
}

func TestParseOverrides(t *testing.T) {
	overrides, err := operators.ParseOverrides([]byte(`{"TKT_OID": "Bee Network Metroline", "ABC": "Abc"}`))
	require.NoError(t, err)
	require.Equal(t, []operators.Override{
		{Key: "TKT_OID", Name: "Bee Network Metroline"},
		{Key: "ABC", Name: "Abc"},
	}, overrides)

	overrides, err = operators.ParseOverrides([]byte("ZED: Zed Buses\nALPHA: Alpha Buses\n"))
	require.NoError(t, err)
	require.Equal(t, "ZED", overrides[0].Key)
	require.Equal(t, "ALPHA", overrides[1].Key)

	overrides, err = operators.ParseOverrides([]byte(""))
	require.NoError(t, err)
	require.Empty(t, overrides)
}

func TestParseOverridesMalformed(t *testing.T) {
	for name, content := range map[string]string{
		"list":         "- a\n- b\n",
		"nested value": "ABC:\n  nested: value\n",
		"invalid yaml": "{\"unterminated\": ",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := operators.ParseOverrides([]byte(content))
			require.ErrorIs(t, err, operators.ErrMalformedOverrides)
		})
	}
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()

	directory := operators.LoadDirectory(filepath.Join(dir, "missing.csv"), filepath.Join(dir, "missing.json"))
	require.Equal(t, 0, directory.CodeCount())
	require.Equal(t, 0, directory.OverrideCount())

	directory = operators.LoadDirectory(
		writeTemp(t, "table.csv", "NOCCODE,OperatorPublicName\nABCD,Acme Buses\n"),
		writeTemp(t, "overrides.json", `{"ABCD": "Acme Override"}`),
	)
	require.Equal(t, 1, directory.CodeCount())
	require.Equal(t, 1, directory.OverrideCount())
	require.Equal(t, "Acme Override", operators.NewResolver(directory).Resolve("ABCD", ""))
}

func writeTemp(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}
