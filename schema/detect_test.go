package schema

import (
	"errors"
	"testing"
)

// ============================================================================
// DETECTION TESTS
// ============================================================================

// Tidy WDI extract: one row per country+indicator+year.
var longCSV = []byte(`Country Name,Country Code,Indicator Name,Indicator Code,Year,Value
Germany,DEU,CO2 emissions (metric tons per capita),EN.ATM.CO2E.PC,1990,11.45
Germany,DEU,CO2 emissions (metric tons per capita),EN.ATM.CO2E.PC,1991,11.05
Germany,DEU,GDP per capita (current US$),NY.GDP.PCAP.CD,1990,22219.58
India,IND,CO2 emissions (metric tons per capita),EN.ATM.CO2E.PC,1990,0.71
India,IND,GDP per capita (current US$),NY.GDP.PCAP.CD,1990,367.56
India,IND,GDP per capita (current US$),NY.GDP.PCAP.CD,1991,303.05
Brazil,BRA,Urban population (% of total),SP.URB.TOTL.IN.ZS,1990,73.92
Brazil,BRA,Urban population (% of total),SP.URB.TOTL.IN.ZS,1991,74.48
`)

// World Bank export: one column per year, ".." for missing cells.
var wideCSV = []byte(`Country Name,Country Code,Indicator Name,Indicator Code,1990,1991,1992,1993
Germany,DEU,CO2 emissions (metric tons per capita),EN.ATM.CO2E.PC,11.45,11.05,10.64,10.50
India,IND,CO2 emissions (metric tons per capita),EN.ATM.CO2E.PC,0.71,0.74,0.76,..
Brazil,BRA,Urban population (% of total),SP.URB.TOTL.IN.ZS,73.92,74.48,75.02,75.55
`)

func TestDetectLongLayout(t *testing.T) {
	info, err := Detect(longCSV)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if info.Layout != LayoutLong {
		t.Fatalf("layout = %s, want long", info.Layout)
	}
	if info.CountryCol != 0 {
		t.Errorf("CountryCol = %d, want 0", info.CountryCol)
	}
	if info.CountryCodeCol != 1 {
		t.Errorf("CountryCodeCol = %d, want 1", info.CountryCodeCol)
	}
	if info.IndicatorCol != 2 {
		t.Errorf("IndicatorCol = %d, want 2", info.IndicatorCol)
	}
	if info.YearCol != 4 || info.ValueCol != 5 {
		t.Errorf("YearCol/ValueCol = %d/%d, want 4/5", info.YearCol, info.ValueCol)
	}

	if info.YearMin != 1990 || info.YearMax != 1991 {
		t.Errorf("year span = %d-%d, want 1990-1991", info.YearMin, info.YearMax)
	}

	assertContains(t, info.Countries, "Germany", "Germany should be sampled")
	assertContains(t, info.Countries, "India", "India should be sampled")
	assertContains(t, info.Indicators, "GDP per capita (current US$)", "GDP indicator should be sampled")
}

func TestDetectWideLayout(t *testing.T) {
	info, err := Detect(wideCSV)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if info.Layout != LayoutWide {
		t.Fatalf("layout = %s, want wide", info.Layout)
	}
	if len(info.YearCols) != 4 {
		t.Errorf("len(YearCols) = %d, want 4", len(info.YearCols))
	}
	if info.YearCols[4] != 1990 || info.YearCols[7] != 1993 {
		t.Errorf("YearCols = %v, want cols 4..7 → 1990..1993", info.YearCols)
	}
	if info.YearMin != 1990 || info.YearMax != 1993 {
		t.Errorf("year span = %d-%d, want 1990-1993", info.YearMin, info.YearMax)
	}
	if !info.HasIndicatorCodes() {
		t.Error("indicator code column should be detected")
	}
}

func TestDetectWorldBankYearHeaders(t *testing.T) {
	csvData := []byte(`Country Name,Country Code,Series Name,Series Code,1990 [YR1990],2000 [YR2000],2010 [YR2010]
Germany,DEU,CO2 emissions (metric tons per capita),EN.ATM.CO2E.PC,11.45,10.10,9.46
`)
	info, err := Detect(csvData)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if info.Layout != LayoutWide {
		t.Fatalf("layout = %s, want wide", info.Layout)
	}
	if info.IndicatorCol != 2 {
		t.Errorf("Series Name should map to IndicatorCol 2, got %d", info.IndicatorCol)
	}
	if info.YearMin != 1990 || info.YearMax != 2010 {
		t.Errorf("year span = %d-%d, want 1990-2010", info.YearMin, info.YearMax)
	}
}

func TestDetectErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"header only", []byte("Country,Year,Value\n"), ErrNoRows},
		{"unclassifiable", []byte("a,b\nx,y\n"), ErrUnknownLayout},
		{
			// Wide layout but no column left to name the indicator.
			"wide without indicator column",
			[]byte("Country Name,1990,2000,2010\nBrazil,100,200,300\nIndia,50,80,120\n"),
			ErrUnknownLayout,
		},
	}

	for _, tt := range tests {
		_, err := Detect(tt.data)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Country Name", "country_name"},
		{"Indicator Code", "indicator_code"},
		{"IndicatorCode", "indicator_code"},
		{"country_code", "country_code"},
		{"Series Name", "series_name"},
		{"GDP per capita", "gdp_per_capita"},
	}

	for _, tt := range tests {
		got := ToSnakeCase(tt.input)
		if got != tt.expected {
			t.Errorf("ToSnakeCase(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestParseYearHeader(t *testing.T) {
	tests := []struct {
		input string
		year  int
		ok    bool
	}{
		{"1990", 1990, true},
		{"2022", 2022, true},
		{"1990 [YR1990]", 1990, true},
		{"Year", 0, false},
		{"12", 0, false},
		{"9999", 0, false},
	}

	for _, tt := range tests {
		year, ok := parseYearHeader(tt.input)
		if ok != tt.ok || year != tt.year {
			t.Errorf("parseYearHeader(%q) = (%d, %v), want (%d, %v)",
				tt.input, year, ok, tt.year, tt.ok)
		}
	}
}

// ============================================================================
// HELPERS
// ============================================================================

func assertContains(t *testing.T, slice []string, item string, msg string) {
	t.Helper()
	for _, s := range slice {
		if s == item {
			return
		}
	}
	t.Errorf("%s: %q not found in %v", msg, item, slice)
}
