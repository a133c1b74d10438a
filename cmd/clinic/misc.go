package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/clinic-client/internal/model"
	"github.com/jwalitptl/clinic-client/internal/service/records"
	"github.com/jwalitptl/clinic-client/internal/service/view"
)

func newDiagnosesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnoses",
		Short: "Browse diagnoses",
	}

	flags := &listFlags{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List diagnoses with patient names resolved",
		RunE: func(cmd *cobra.Command, args []string) error {
			diagnoses, err := a.records.DiagnosisList(cmd.Context())
			if err != nil {
				return err
			}

			filtered := view.Filter(diagnoses, flags.query,
				func(d model.DiagnosisView) string { return d.Condition },
				func(d model.DiagnosisView) string { return d.PatientName })
			page := view.Paginate(filtered, flags.size(a), flags.page)

			renderTable(cmd.OutOrStdout(), page,
				[]string{"ID", "CONDITION", "PATIENT", "DATE"},
				func(d model.DiagnosisView) []string {
					return []string{strconv.Itoa(d.ID), d.Condition, d.PatientName, d.DiagnosisDate.String()}
				})
			return nil
		},
	}
	flags.addTo(list)
	cmd.AddCommand(list)
	return cmd
}

func newPrescriptionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prescriptions",
		Short: "Browse prescriptions",
	}

	flags := &listFlags{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List prescriptions with doctor and patient names resolved",
		RunE: func(cmd *cobra.Command, args []string) error {
			prescriptions, err := a.records.PrescriptionList(cmd.Context())
			if err != nil {
				return err
			}

			filtered := view.Filter(prescriptions, flags.query, records.PrescriptionSearchFields()...)
			page := view.Paginate(filtered, flags.size(a), flags.page)

			renderTable(cmd.OutOrStdout(), page,
				[]string{"ID", "MEDICATION", "DOSAGE", "DOCTOR", "PATIENT"},
				func(p model.PrescriptionView) []string {
					return []string{strconv.Itoa(p.ID), p.Medication, p.Dosage, p.DoctorName, p.PatientName}
				})
			return nil
		},
	}
	flags.addTo(list)
	cmd.AddCommand(list)
	return cmd
}

func newSpecialisationsCmd(a *app) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "specialisations",
		Short: "List or autocomplete the specialisation vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range view.Suggest(records.SpecialisationVocabulary(), query) {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "substring to complete")
	return cmd
}
