package followup

// Reminder activity settings shared by every follow-up.
const (
	ReminderSubject = "Ring kunden hvis ingen svar"
	ReminderType    = "call"
)

// Action defines one stage-based follow-up: which stage it watches, how
// stale a deal must be, and what the follow-up sends and records.
type Action struct {
	Key               string // counter key in the sweep result
	StageName         string
	MinStalenessDays  int
	EmailSubject      string
	EmailBody         string
	NoteContent       string
	ReminderDueInDays int
}

// DefaultActions returns the two configured follow-ups, in evaluation order:
// the Contacted reminder before the Offer reminder.
func DefaultActions() []Action {
	return []Action{
		{
			Key:              "contacted_followups",
			StageName:        "Kunde kontaktet",
			MinStalenessDays: 3,
			EmailSubject:     "Skal vi booke gratis befaring? – Softvask Norge",
			EmailBody: "Hei!\n\nVille bare følge opp om du fortsatt ønsker pris på tak/fasadevask. " +
				"Vi kan ta en gratis befaring når det passer.\n\n– Johan, Softvask Norge",
			NoteContent:       "Auto-oppfølging sendt (Kunde kontaktet).",
			ReminderDueInDays: 3,
		},
		{
			Key:              "offer_followups",
			StageName:        "Tilbud sendt",
			MinStalenessDays: 7,
			EmailSubject:     "Spørsmål til tilbudet vårt? – Softvask Norge",
			EmailBody: "Hei!\n\nVille bare sjekke om du har sett på tilbudet. " +
				"Gi meg beskjed om du har spørsmål eller ønsker endringer.\n\n– Johan",
			NoteContent:       "Auto-oppfølging sendt (Tilbud sendt).",
			ReminderDueInDays: 4,
		},
	}
}
