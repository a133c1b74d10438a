package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/clinic-client/internal/model"
	"github.com/jwalitptl/clinic-client/internal/service/records"
	"github.com/jwalitptl/clinic-client/internal/service/view"
	"github.com/jwalitptl/clinic-client/pkg/compactdate"
)

func newPatientsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Manage patients",
	}
	cmd.AddCommand(
		newPatientsListCmd(a),
		newPatientsChartCmd(a),
		newPatientsCreateCmd(a),
		newPatientsDeleteCmd(a),
	)
	return cmd
}

func newPatientsListCmd(a *app) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patients, filterable by name, phone or email",
		RunE: func(cmd *cobra.Command, args []string) error {
			patients, err := a.api.ListPatients(cmd.Context())
			if err != nil {
				return err
			}

			filtered := view.Filter(patients, flags.query, records.PatientSearchFields()...)
			page := view.Paginate(filtered, flags.size(a), flags.page)

			renderTable(cmd.OutOrStdout(), page,
				[]string{"ID", "NAME", "DOB", "PHONE"},
				func(p model.Patient) []string {
					return []string{strconv.Itoa(p.ID), p.DisplayName(), p.DateOfBirth.String(), p.Phone}
				})
			return nil
		},
	}
	flags.addTo(cmd)
	return cmd
}

// newPatientsChartCmd renders the fully joined single-patient view:
// diagnoses with their prescriptions and prescribing doctors.
func newPatientsChartCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chart ID",
		Short: "Show a patient with diagnoses and prescriptions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid patient id %q", args[0])
			}

			chart, err := a.records.PatientChart(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := chart.Patient
			fmt.Fprintf(out, "%s (#%d)\n", p.DisplayName(), p.ID)
			fmt.Fprintf(out, "born %s, %s\n", p.DateOfBirth, p.Address)
			fmt.Fprintf(out, "email: %s  phone: %s\n", p.Email, p.Phone)

			if len(chart.Diagnoses) == 0 {
				fmt.Fprintln(out, "no diagnoses on record")
				return nil
			}

			for _, d := range chart.Diagnoses {
				fmt.Fprintf(out, "\n%s (diagnosed %s)\n", d.Condition, d.DiagnosisDate)
				if len(d.Prescriptions) == 0 {
					fmt.Fprintln(out, "  no prescriptions")
					continue
				}
				for _, pr := range d.Prescriptions {
					fmt.Fprintf(out, "  %s %s, %s to %s, prescribed by %s\n",
						pr.Medication, pr.Dosage, pr.StartDate, pr.EndDate, pr.DoctorName)
				}
			}
			return nil
		},
	}
}

func newPatientsCreateCmd(a *app) *cobra.Command {
	req := &model.CreatePatientRequest{}
	var dob string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			decoded, err := compactdate.Decode(dob)
			if err != nil {
				return err
			}
			req.DateOfBirth = decoded

			patient, err := a.api.CreatePatient(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created patient #%d %s\n", patient.ID, patient.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "phone number, up to 10 digits")
	cmd.Flags().StringVar(&req.Address, "address", "", "postal address")
	cmd.Flags().StringVar(&dob, "date-of-birth", "", "date of birth as a ddmmyy token")
	return cmd
}

func newPatientsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a patient and every record referencing them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid patient id %q", args[0])
			}

			result, err := a.cascade.DeletePatient(cmd.Context(), id)
			reportCascade(cmd, result)
			return err
		},
	}
}
