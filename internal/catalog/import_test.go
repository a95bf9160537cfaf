package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"golang.org/x/text/encoding/charmap"
)

const csvFixture = `id,name,address,chain,latitude,longitude
s1,Konzum Ilica,Ilica 30,konzum,45.8131,15.9685
s2,Lidl Vukovarska,Vukovarska 10,lidl,45.7990,15.9760
`

func TestParseCSV(t *testing.T) {
	result, err := ParseCSV([]byte(csvFixture))
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Empty(t, result.Skipped)

	first := result.Records[0]
	assert.Equal(t, "s1", first.ID)
	assert.Equal(t, "Konzum Ilica", first.Name)
	assert.Equal(t, "konzum", first.Chain)
	assert.Equal(t, 45.8131, first.Coordinate.Latitude)
}

func TestParseCSV_SemicolonDelimiter(t *testing.T) {
	content := "id;name;address;chain;latitude;longitude\ns1;Studenac Trogir;Obala 1;studenac;43.5165;16.2502\n"
	result, err := ParseCSV([]byte(content))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "studenac", result.Records[0].Chain)
}

func TestParseCSV_Windows1250(t *testing.T) {
	utf8Content := "id,name,address,chain,latitude,longitude\ns1,Konzum Maksimirska,Maksimirska cesta 112 Čučerje,konzum,45.8210,16.0170\n"
	encoded, err := charmap.Windows1250.NewEncoder().Bytes([]byte(utf8Content))
	require.NoError(t, err)

	result, err := ParseCSV(encoded)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Contains(t, result.Records[0].Address, "Čučerje")
}

func TestParseCSV_SkipsBadRows(t *testing.T) {
	content := csvFixture +
		"s3,Bad Coords,Somewhere 1,plodine,95.0,15.0\n" +
		",Missing ID,Somewhere 2,lidl,45.0,15.0\n" +
		"s5,Bad Number,Somewhere 3,lidl,abc,15.0\n"
	result, err := ParseCSV([]byte(content))
	require.NoError(t, err)
	assert.Len(t, result.Records, 2)
	require.Len(t, result.Skipped, 3)
	assert.Equal(t, 4, result.Skipped[0].Row)
}

func TestParseCSV_MissingColumn(t *testing.T) {
	_, err := ParseCSV([]byte("id,name\ns1,Store\n"))
	assert.Error(t, err)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"id", "name", "address", "chain", "latitude", "longitude"},
		{"s1", "Kaufland Zapad", "Zagrebačka avenija 5", "kaufland", 45.8010, 15.9100},
	}
	for i, row := range rows {
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, ref, cell))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	result, err := ParseXLSX(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "kaufland", result.Records[0].Chain)
	assert.InDelta(t, 45.8010, result.Records[0].Coordinate.Latitude, 0.0001)
}

func TestParseCSV_NormalizesChainCase(t *testing.T) {
	content := "id,name,address,chain,latitude,longitude\ns1,Lidl,Ulica 1,LIDL,45.0,15.0\n"
	result, err := ParseCSV([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, "lidl", result.Records[0].Chain)
}
