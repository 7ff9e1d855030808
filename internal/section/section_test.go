package section

import "testing"

const resume = `AMINE BENNANI
Casablanca

FORMATION
Master en Informatique 2018-2020
ENSIAS Rabat

EXPÉRIENCE
Développeur Go chez Acme 2020 - présent

COMPÉTENCES
Go, Docker, PostgreSQL`

func TestExtract(t *testing.T) {
	tests := []struct {
		name        string
		names, next []string
		want        string
	}{
		{
			name:  "education until experience",
			names: []string{"formation", "education"},
			next:  []string{"experience", "competences"},
			want:  "Master en Informatique 2018-2020\nENSIAS Rabat",
		},
		{
			name:  "accent insensitive headers",
			names: []string{"expérience"},
			next:  []string{"compétences"},
			want:  "Développeur Go chez Acme 2020 - présent",
		},
		{
			name:  "runs to end of document",
			names: []string{"compétences"},
			next:  []string{"langues"},
			want:  "Go, Docker, PostgreSQL",
		},
		{
			name:  "missing header",
			names: []string{"projects"},
			next:  []string{"skills"},
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(resume, tt.names, tt.next); got != tt.want {
				t.Fatalf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractNextEqualsNames(t *testing.T) {
	headers := []string{"formation", "expérience", "compétences"}

	// The start line is consumed and the section stops at the following
	// header, so the text between two headers is returned.
	got := Extract(resume, headers, headers)
	want := "Master en Informatique 2018-2020\nENSIAS Rabat"
	if got != want {
		t.Fatalf("Extract() = %q, want %q", got, want)
	}

	// Two adjacent headers leave nothing in between.
	adjacent := "EDUCATION\nEXPERIENCE\nAcme"
	both := []string{"education", "experience"}
	if got := Extract(adjacent, both, both); got != "" {
		t.Fatalf("adjacent headers: Extract() = %q, want empty", got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	profile := Named("profile", resume, []string{"profil"}, []string{"formation"})
	contact := Named("contact", "CONTACT\nRabat", []string{"contact"}, nil)

	if got := FirstNonEmpty("full", profile, contact); got != "Rabat" {
		t.Fatalf("FirstNonEmpty = %q, want %q", got, "Rabat")
	}
	if got := FirstNonEmpty("full", profile); got != "full" {
		t.Fatalf("FirstNonEmpty fallback = %q, want %q", got, "full")
	}
}

func TestOccurrences(t *testing.T) {
	text := "Five years of experience in retail.\nEXPERIENCE\nSales lead 2019 - 2023\nEDUCATION\nBTS 2015\nExpérience: 2017 - present"
	names := []string{"experience"}
	next := []string{"experience", "education"}

	got := Occurrences(text, names, next)
	want := []Occurrence{
		{Tail: "in retail.", Text: ""},
		{Tail: "", Text: "Sales lead 2019 - 2023"},
		{Tail: "2017 - present", Text: ""},
	}
	if len(got) != len(want) {
		t.Fatalf("len(Occurrences) = %d, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Occurrences[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if got := Occurrences("EDUCATION\nBTS 2015", names, next); len(got) != 0 {
		t.Fatalf("Occurrences without header = %+v, want none", got)
	}
}
