package image

import (
	"strings"
	"testing"
)

func testBase(t *testing.T) Reference {
	t.Helper()
	ref, err := ParseReference("mcr.microsoft.com/mssql/server:2019-latest")
	if err != nil {
		t.Fatalf("parse base reference: %v", err)
	}
	return ref
}

func TestDockerfileRendering(t *testing.T) {
	d := DerivedImage{
		Base: testBase(t),
		Env: map[string]string{
			"MSSQL_SA_PASSWORD": "Str0ng!Passw0rd",
			"ACCEPT_EULA":       "Y",
			"SA_PASSWORD":       "Str0ng!Passw0rd",
		},
		ExposePort: 1433,
		Cmd:        []string{"/opt/mssql/bin/sqlservr"},
	}

	got := d.Dockerfile()

	lines := strings.Split(strings.TrimSpace(got), "\n")
	want := []string{
		`FROM mcr.microsoft.com/mssql/server:2019-latest`,
		`ENV ACCEPT_EULA="Y"`,
		`ENV MSSQL_SA_PASSWORD="Str0ng!Passw0rd"`,
		`ENV SA_PASSWORD="Str0ng!Passw0rd"`,
		`EXPOSE 1433`,
		`CMD ["/opt/mssql/bin/sqlservr"]`,
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

// ENV values undergo variable expansion at build time; special characters
// in a password must be escaped so the baked credential matches the
// configured one.
func TestDockerfileEscapesEnvValues(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{`Pa$sword1!`, `ENV SA_PASSWORD="Pa\$sword1!"`},
		{`dbl"quote1A`, `ENV SA_PASSWORD="dbl\"quote1A"`},
		{`back\slash1A`, `ENV SA_PASSWORD="back\\slash1A"`},
	}

	for _, tt := range tests {
		d := DerivedImage{
			Base: testBase(t),
			Env:  map[string]string{"SA_PASSWORD": tt.value},
		}
		if got := d.Dockerfile(); !strings.Contains(got, tt.want) {
			t.Errorf("value %q rendered without escaping:\n%s", tt.value, got)
		}
	}
}

// Env keys must render in sorted order regardless of map iteration.
func TestDockerfileDeterministic(t *testing.T) {
	d := DerivedImage{
		Base: testBase(t),
		Env: map[string]string{
			"Z_VAR": "z", "A_VAR": "a", "M_VAR": "m",
		},
	}

	first := d.Dockerfile()
	for i := 0; i < 20; i++ {
		if got := d.Dockerfile(); got != first {
			t.Fatal("Dockerfile output is not deterministic")
		}
	}

	aIdx := strings.Index(first, "A_VAR")
	mIdx := strings.Index(first, "M_VAR")
	zIdx := strings.Index(first, "Z_VAR")
	if !(aIdx < mIdx && mIdx < zIdx) {
		t.Errorf("env keys not sorted:\n%s", first)
	}
}

func TestDockerfileOmitsEmptySections(t *testing.T) {
	d := DerivedImage{Base: testBase(t)}
	got := d.Dockerfile()

	if strings.Contains(got, "ENV") {
		t.Errorf("no env set, output should not contain ENV:\n%s", got)
	}
	if strings.Contains(got, "EXPOSE") {
		t.Errorf("no port set, output should not contain EXPOSE:\n%s", got)
	}
	if strings.Contains(got, "CMD") {
		t.Errorf("no command set, output should not contain CMD:\n%s", got)
	}
}
