package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"patient-records/internal/app"
	"patient-records/internal/models"
	"patient-records/internal/services"
	"patient-records/internal/store"
)

// NewPatientsCmd lists stored patients without starting the GUI.
func NewPatientsCmd(ctx context.Context, e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "list stored patients",
		Long:  "Lists stored patients sorted by name, optionally filtered by a case-insensitive ID or name fragment.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			term, _ := cmd.Flags().GetString("search")
			asJSON, _ := cmd.Flags().GetBool("json")

			return e.withStore(func(st *store.Store) error {
				patients := services.NewPatientService(st, models.NewIDGenerator(time.Now), e.logger)
				found, err := patients.Search(cmd.Context(), term)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), found)
				}
				for i := range found {
					fmt.Fprintln(cmd.OutOrStdout(), found[i].Summary())
				}
				return nil
			})
		},
	}
	pf := cmd.Flags()
	pf.StringP("search", "s", "", "ID or name fragment to match")
	pf.Bool("json", false, "print JSON instead of one line per patient")
	return cmd
}

// NewPatientCmd prints one stored patient.
func NewPatientCmd(ctx context.Context, e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient ID",
		Short: "show one stored patient",
		Long:  "Prints every field of the patient stored under ID and when the record was created.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			return e.withStore(func(st *store.Store) error {
				patients := services.NewPatientService(st, models.NewIDGenerator(time.Now), e.logger)
				record, err := patients.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), record)
				}

				out := cmd.OutOrStdout()
				for _, f := range record.Fields() {
					fmt.Fprintf(out, "%-15s %s\n", f.Label+":", f.Get())
				}
				if created, ok := models.TimestampOf(record.ID); ok {
					fmt.Fprintf(out, "%-15s %s\n", "Created:", created.UTC().Format(time.RFC3339))
				}
				return nil
			})
		},
	}
	cmd.Flags().Bool("json", false, "print JSON instead of labelled fields")
	return cmd
}

// NewMedicationsCmd lists stored medications without starting the GUI.
func NewMedicationsCmd(ctx context.Context, e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "medications",
		Short: "list stored medications",
		Long:  "Lists stored medications sorted by name.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			return e.withStore(func(st *store.Store) error {
				medications := services.NewMedicationService(st, models.NewIDGenerator(time.Now), e.logger)
				found, err := medications.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), found)
				}
				for _, m := range found {
					fmt.Fprintf(cmd.OutOrStdout(), "%s - %s [%s] %s %.2f\n",
						m.ID, m.Name, m.Descriptor, m.Supplier, m.CostPerPill)
				}
				return nil
			})
		},
	}
	cmd.Flags().Bool("json", false, "print JSON instead of one line per medication")
	return cmd
}

// NewStatsCmd prints how many records of each kind are stored.
func NewStatsCmd(ctx context.Context, e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "count stored records",
		Long:  "Counts stored patients and medications.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withStore(func(st *store.Store) error {
				patients, err := st.Count(cmd.Context(), models.PatientKeyPrefix)
				if err != nil {
					return err
				}
				medications, err := st.Count(cmd.Context(), models.MedicationKeyPrefix)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "store: %s\npatients: %d\nmedications: %d\n", st.Dir(), patients, medications)
				return nil
			})
		},
	}
	return cmd
}

func (e *env) withStore(fn func(st *store.Store) error) error {
	st, err := app.OpenStore(e.cfg, e.logger)
	if err != nil {
		return err
	}
	defer st.Shutdown()
	return fn(st)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
