package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/clinic-client/internal/model"
	"github.com/jwalitptl/clinic-client/internal/service/cascade"
	"github.com/jwalitptl/clinic-client/internal/service/records"
	"github.com/jwalitptl/clinic-client/internal/service/view"
)

func newDoctorsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "Manage doctors",
	}
	cmd.AddCommand(
		newDoctorsListCmd(a),
		newDoctorsGetCmd(a),
		newDoctorsCreateCmd(a),
		newDoctorsUpdateCmd(a),
		newDoctorsDeleteCmd(a),
	)
	return cmd
}

func newDoctorsListCmd(a *app) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List doctors, filterable by name or specialisation",
		RunE: func(cmd *cobra.Command, args []string) error {
			doctors, err := a.api.ListDoctors(cmd.Context())
			if err != nil {
				return err
			}

			filtered := view.Filter(doctors, flags.query, records.DoctorSearchFields()...)
			page := view.Paginate(filtered, flags.size(a), flags.page)

			renderTable(cmd.OutOrStdout(), page,
				[]string{"ID", "NAME", "SPECIALISATION", "PHONE"},
				func(d model.Doctor) []string {
					return []string{strconv.Itoa(d.ID), d.DisplayName(), string(d.Specialisation), d.Phone}
				})
			return nil
		},
	}
	flags.addTo(cmd)
	return cmd
}

func newDoctorsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one doctor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid doctor id %q", args[0])
			}

			doctor, err := a.api.GetDoctor(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (#%d)\n", doctor.DisplayName(), doctor.ID)
			fmt.Fprintf(out, "specialisation: %s\n", doctor.Specialisation)
			fmt.Fprintf(out, "email: %s\nphone: %s\n", doctor.Email, doctor.Phone)
			return nil
		},
	}
}

func newDoctorsCreateCmd(a *app) *cobra.Command {
	req := &model.CreateDoctorRequest{}
	var specialisation string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Specialisation = model.Specialisation(specialisation)

			doctor, err := a.api.CreateDoctor(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created doctor #%d %s\n", doctor.ID, doctor.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "phone number, up to 10 digits")
	cmd.Flags().StringVar(&specialisation, "specialisation", "", "one of the known specialisations")
	return cmd
}

func newDoctorsUpdateCmd(a *app) *cobra.Command {
	var email, phone string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a doctor's contact details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid doctor id %q", args[0])
			}

			req := &model.UpdateDoctorRequest{}
			if cmd.Flags().Changed("email") {
				req.Email = &email
			}
			if cmd.Flags().Changed("phone") {
				req.Phone = &phone
			}

			doctor, err := a.api.UpdateDoctor(cmd.Context(), id, req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "updated doctor #%d %s\n", doctor.ID, doctor.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "new email address")
	cmd.Flags().StringVar(&phone, "phone", "", "new phone number")
	return cmd
}

func newDoctorsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a doctor and every record referencing them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid doctor id %q", args[0])
			}

			result, err := a.cascade.DeleteDoctor(cmd.Context(), id)
			reportCascade(cmd, result)
			return err
		},
	}
}

// reportCascade prints the per-record outcome of a cascade, successful or
// not: partial success must be distinguishable from total failure.
func reportCascade(cmd *cobra.Command, result *cascade.Result) {
	if result == nil {
		return
	}
	out := cmd.OutOrStdout()

	for _, ref := range result.Deleted {
		fmt.Fprintf(out, "deleted %s\n", ref)
	}
	for _, f := range result.Failed {
		fmt.Fprintf(out, "FAILED  %s: %v\n", f.Ref, f.Err)
	}
	for _, ref := range result.Remaining {
		fmt.Fprintf(out, "kept    %s (not attempted)\n", ref)
	}

	if result.ParentDeleted {
		fmt.Fprintf(out, "deleted %s\n", result.Parent)
	}
}
