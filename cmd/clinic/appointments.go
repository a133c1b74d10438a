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

func newAppointmentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "Manage appointments",
	}
	cmd.AddCommand(
		newAppointmentsListCmd(a),
		newAppointmentsCreateCmd(a),
		newAppointmentsDeleteCmd(a),
	)
	return cmd
}

func newAppointmentsListCmd(a *app) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments with doctor and patient names resolved",
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, err := a.records.AppointmentSchedule(cmd.Context())
			if err != nil {
				return err
			}

			filtered := view.Filter(schedule, flags.query, records.AppointmentSearchFields()...)
			page := view.Paginate(filtered, flags.size(a), flags.page)

			renderTable(cmd.OutOrStdout(), page,
				[]string{"ID", "DATE", "DOCTOR", "PATIENT"},
				func(v model.AppointmentView) []string {
					return []string{strconv.Itoa(v.ID), v.AppointmentDate.String(), v.DoctorName, v.PatientName}
				})
			return nil
		},
	}
	flags.addTo(cmd)
	return cmd
}

func newAppointmentsCreateCmd(a *app) *cobra.Command {
	var patientID, doctorID int
	var date string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Book an appointment",
		RunE: func(cmd *cobra.Command, args []string) error {
			decoded, err := compactdate.Decode(date)
			if err != nil {
				return err
			}

			appointment, err := a.api.CreateAppointment(cmd.Context(), &model.CreateAppointmentRequest{
				PatientID:       patientID,
				DoctorID:        doctorID,
				AppointmentDate: decoded,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "booked appointment #%d on %s\n",
				appointment.ID, appointment.AppointmentDate)
			return nil
		},
	}

	cmd.Flags().IntVar(&patientID, "patient", 0, "patient id")
	cmd.Flags().IntVar(&doctorID, "doctor", 0, "doctor id")
	cmd.Flags().StringVar(&date, "date", "", "appointment date as a ddmmyy token")
	return cmd
}

func newAppointmentsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Cancel one appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid appointment id %q", args[0])
			}

			if err := a.api.DeleteAppointment(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted appointment #%d\n", id)
			return nil
		},
	}
}
