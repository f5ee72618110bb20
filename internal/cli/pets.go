package cli

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pet-health-chat/internal/domain/pets"
)

func (a *app) petsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pets",
		Short: "List, create, show and delete pets",
	}
	cmd.AddCommand(a.petsListCmd(), a.petsAddCmd(), a.petsShowCmd(), a.petsRmCmd())
	return cmd
}

func (a *app) petsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your pets (newest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var items []pets.PetResponse
			if err := a.client.DoJSON(cmd.Context(), http.MethodGet, "/pets", nil, &items); err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(a.out, "No pets yet. Add one with: petctl pets add --name NAME --species dog")
				return nil
			}
			fmt.Fprintln(a.out, headerStyle.Render(fmt.Sprintf("%d pet(s)", len(items))))
			for _, p := range items {
				fmt.Fprintf(a.out, "%s  %s  %s, %s years, %s kg, %d record(s)\n",
					idStyle.Render(p.ID), nameStyle.Render(p.Name), p.Species,
					formatNum(p.Age), formatNum(p.Weight), len(p.MedicalHistory))
			}
			return nil
		},
	}
}

func (a *app) petsAddCmd() *cobra.Command {
	var (
		name, species, breed string
		age, weight          float64
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a pet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body := map[string]any{
				"name":    name,
				"species": species,
				"breed":   breed,
				"age":     age,
				"weight":  weight,
			}
			var p pets.PetResponse
			if err := a.client.DoJSON(cmd.Context(), http.MethodPost, "/pets", body, &p); err != nil {
				return err
			}
			fmt.Fprintln(a.out, successStyle.Render("Created "+p.Name)+" "+idStyle.Render(p.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Pet name")
	cmd.Flags().StringVar(&species, "species", "dog", "dog, cat or other")
	cmd.Flags().StringVar(&breed, "breed", "", "Breed")
	cmd.Flags().Float64Var(&age, "age", 0, "Age in years")
	cmd.Flags().Float64Var(&weight, "weight", 0, "Weight in kg")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) petsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show PET_ID",
		Short: "Show a pet with its medical history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p pets.PetResponse
			if err := a.client.DoJSON(cmd.Context(), http.MethodGet, "/pets/"+url.PathEscape(args[0]), nil, &p); err != nil {
				return err
			}
			a.printPet(p)
			return nil
		},
	}
}

func (a *app) petsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm PET_ID",
		Short: "Delete a pet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DoJSON(cmd.Context(), http.MethodDelete, "/pets/"+url.PathEscape(args[0]), nil, nil); err != nil {
				return err
			}
			fmt.Fprintln(a.out, successStyle.Render("Deleted "+args[0]))
			return nil
		},
	}
}

func (a *app) recordsCmd() *cobra.Command {
	var (
		date                           string
		symptoms, diagnosis, treatment string
		kind, description, notes       string
	)
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Medical records",
	}
	add := &cobra.Command{
		Use:   "add PET_ID",
		Short: "Append a medical record to a pet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			when := time.Now().UTC()
			if strings.TrimSpace(date) != "" {
				d, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date %q (want YYYY-MM-DD)", date)
				}
				when = d
			}
			body := map[string]any{
				"date":        when.UnixMilli(),
				"symptoms":    symptoms,
				"diagnosis":   diagnosis,
				"treatment":   treatment,
				"type":        kind,
				"description": description,
				"notes":       notes,
			}
			var rec pets.RecordResponse
			path := "/pets/" + url.PathEscape(args[0]) + "/medical-records"
			if err := a.client.DoJSON(cmd.Context(), http.MethodPost, path, body, &rec); err != nil {
				return err
			}
			fmt.Fprintln(a.out, successStyle.Render("Added record")+" "+idStyle.Render(rec.ID))
			return nil
		},
	}
	f := add.Flags()
	f.StringVar(&date, "date", "", "Date YYYY-MM-DD (default today)")
	f.StringVar(&symptoms, "symptoms", "", "Symptoms")
	f.StringVar(&diagnosis, "diagnosis", "", "Diagnosis")
	f.StringVar(&treatment, "treatment", "", "Treatment")
	f.StringVar(&kind, "type", "", "symptom, diagnosis or treatment (alternative to --symptoms)")
	f.StringVar(&description, "description", "", "Description (with --type)")
	f.StringVar(&notes, "notes", "", "Notes")

	cmd.AddCommand(add)
	return cmd
}

func (a *app) printPet(p pets.PetResponse) {
	fmt.Fprintln(a.out, nameStyle.Render(p.Name)+" "+idStyle.Render(p.ID))
	breed := p.Breed
	if breed == "" {
		breed = "unknown breed"
	}
	fmt.Fprintf(a.out, "%s, %s, %s years, %s kg\n", p.Species, breed, formatNum(p.Age), formatNum(p.Weight))

	if len(p.MedicalHistory) == 0 {
		fmt.Fprintln(a.out, "No medical history.")
		return
	}

	// Igual que lo ve el asistente: más reciente primero.
	hist := make([]pets.MedicalRecord, 0, len(p.MedicalHistory))
	for _, r := range p.MedicalHistory {
		hist = append(hist, pets.MedicalRecord{
			ID: r.ID, Date: time.UnixMilli(r.Date).UTC(),
			Symptoms: r.Symptoms, Diagnosis: r.Diagnosis, Treatment: r.Treatment,
			Type: r.Type, Description: r.Description, Notes: r.Notes,
		})
	}
	fmt.Fprintln(a.out, headerStyle.Render("Medical history"))
	for _, r := range (pets.Pet{MedicalHistory: hist}).HistoryNewestFirst() {
		summary := r.Symptoms
		if r.Type != "" {
			summary = string(r.Type) + ": " + r.Description
		}
		fmt.Fprintf(a.out, "  %s  %s\n", dateStyle.Render(r.Date.Format("2006-01-02")), summary)
		for _, kv := range [][2]string{{"diagnosis", r.Diagnosis}, {"treatment", r.Treatment}, {"notes", r.Notes}} {
			if kv[1] != "" {
				fmt.Fprintf(a.out, "      %s: %s\n", kv[0], kv[1])
			}
		}
	}
}

func formatNum(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}
