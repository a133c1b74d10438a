package records

import "github.com/jwalitptl/clinic-client/internal/model"

// Search-field sets for the list views, matching what the front end lets a
// user search by: names and specialisation for doctors, names plus the raw
// date token for appointments, contact details for patients.

func DoctorSearchFields() []func(model.Doctor) string {
	return []func(model.Doctor) string{
		func(d model.Doctor) string { return d.DisplayName() },
		func(d model.Doctor) string { return string(d.Specialisation) },
	}
}

func PatientSearchFields() []func(model.Patient) string {
	return []func(model.Patient) string{
		func(p model.Patient) string { return p.DisplayName() },
		func(p model.Patient) string { return p.Phone },
		func(p model.Patient) string { return p.Email },
	}
}

func AppointmentSearchFields() []func(model.AppointmentView) string {
	return []func(model.AppointmentView) string{
		func(a model.AppointmentView) string { return a.DoctorName },
		func(a model.AppointmentView) string { return a.PatientName },
		func(a model.AppointmentView) string {
			token, err := a.AppointmentDate.Token()
			if err != nil {
				return ""
			}
			return token
		},
	}
}

func PrescriptionSearchFields() []func(model.PrescriptionView) string {
	return []func(model.PrescriptionView) string{
		func(p model.PrescriptionView) string { return p.DoctorName },
		func(p model.PrescriptionView) string { return p.PatientName },
		func(p model.PrescriptionView) string { return p.Medication },
	}
}

// SpecialisationVocabulary feeds autocomplete, preserving declaration order
func SpecialisationVocabulary() []string {
	specs := model.Specialisations()
	vocab := make([]string, 0, len(specs))
	for _, s := range specs {
		vocab = append(vocab, string(s))
	}
	return vocab
}
