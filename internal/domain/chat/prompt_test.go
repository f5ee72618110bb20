package chat

import (
	"strings"
	"testing"
	"time"

	"pet-health-chat/internal/domain/pets"
)

func petWithHistory() pets.Pet {
	d := func(day int) time.Time { return time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC) }
	return pets.Pet{
		ID:      "p1",
		Name:    "Firulais",
		Species: pets.SpeciesDog,
		Breed:   "Beagle",
		Age:     4,
		Weight:  12.5,
		MedicalHistory: []pets.MedicalRecord{
			{ID: "r1", Date: d(3), Symptoms: "tos", Diagnosis: "traqueítis", Treatment: "jarabe"},
			{ID: "r2", Date: d(20), Type: pets.RecordTreatment, Description: "vacuna anual", Notes: "sin reacción"},
		},
	}
}

func TestRenderPet_NewestFirstWithLabels(t *testing.T) {
	out := RenderPet(petWithHistory())

	for _, want := range []string{
		"Name: Firulais", "Species: dog", "Breed: Beagle", "Age: 4 years", "Weight: 12.5 kg",
		"Date: 2025-01-03", "Symptoms: tos", "Diagnosis: traqueítis", "Treatment: jarabe",
		"Type: treatment", "Description: vacuna anual", "Notes: sin reacción",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}

	newer := strings.Index(out, "Date: 2025-01-20")
	older := strings.Index(out, "Date: 2025-01-03")
	if newer < 0 || older < 0 || newer > older {
		t.Fatalf("expected newest record first:\n%s", out)
	}
}

func TestRenderPet_NoHistoryUnknownBreed(t *testing.T) {
	out := RenderPet(pets.Pet{Name: "Michi", Species: pets.SpeciesCat})
	if !strings.Contains(out, "Breed: Unknown") || !strings.Contains(out, "Medical history: no records.") {
		t.Fatalf("unexpected render:\n%s", out)
	}
}

func TestSeedTurns(t *testing.T) {
	p := DefaultPrompts()

	general := p.SeedTurns(nil)
	if len(general) != 2 || general[0].Role != RoleUser || general[1].Role != RoleAssistant {
		t.Fatalf("unexpected seed: %+v", general)
	}
	if general[0].Text != p.System {
		t.Fatalf("general instruction should be the bare system prompt")
	}

	pet := petWithHistory()
	scoped := p.SeedTurns(&pet)
	if !strings.HasPrefix(scoped[0].Text, p.System) || !strings.Contains(scoped[0].Text, "Name: Firulais") {
		t.Fatalf("pet instruction should carry the pet block")
	}
}

func TestGreeting_Variants(t *testing.T) {
	p := DefaultPrompts()

	if got := p.Greeting(nil); got != p.GreetingGeneral {
		t.Fatalf("general greeting: %q", got)
	}

	bare := pets.Pet{Name: "Michi"}
	got := p.Greeting(&bare)
	if !strings.Contains(got, "Michi") || strings.Contains(got, "{name}") {
		t.Fatalf("pet greeting: %q", got)
	}
	if strings.Contains(got, "access to") {
		t.Fatalf("pet without history should not claim history: %q", got)
	}

	withHist := petWithHistory()
	got = p.Greeting(&withHist)
	if !strings.Contains(got, "Firulais") || !strings.Contains(got, "medical history") || !strings.Contains(got, "2 records") {
		t.Fatalf("history greeting: %q", got)
	}
}

func TestPrompts_Override(t *testing.T) {
	p := DefaultPrompts().Override(Prompts{GreetingGeneral: "Hola!", System: "  "})
	if p.GreetingGeneral != "Hola!" {
		t.Fatalf("override not applied")
	}
	if p.System != DefaultPrompts().System {
		t.Fatalf("blank override should keep default")
	}
}
