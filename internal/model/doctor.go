package model

type Specialisation string

const (
	SpecialisationPodiatrist          Specialisation = "Podiatrist"
	SpecialisationDermatologist       Specialisation = "Dermatologist"
	SpecialisationPediatrician        Specialisation = "Pediatrician"
	SpecialisationPsychiatrist        Specialisation = "Psychiatrist"
	SpecialisationGeneralPractitioner Specialisation = "General Practitioner"
)

// Specialisations returns the closed vocabulary in declaration order, which
// is the order autocomplete suggestions are presented in.
func Specialisations() []Specialisation {
	return []Specialisation{
		SpecialisationPodiatrist,
		SpecialisationDermatologist,
		SpecialisationPediatrician,
		SpecialisationPsychiatrist,
		SpecialisationGeneralPractitioner,
	}
}

func (s Specialisation) Valid() bool {
	for _, known := range Specialisations() {
		if s == known {
			return true
		}
	}
	return false
}

type Doctor struct {
	ID             int            `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Specialisation Specialisation `json:"specialisation"`
}

func (d Doctor) DisplayName() string {
	return d.FirstName + " " + d.LastName
}

type CreateDoctorRequest struct {
	FirstName      string         `json:"first_name" validate:"required"`
	LastName       string         `json:"last_name" validate:"required"`
	Email          string         `json:"email" validate:"required,email"`
	Phone          string         `json:"phone" validate:"required,numeric,max=10"`
	Specialisation Specialisation `json:"specialisation" validate:"required,oneof=Podiatrist Dermatologist Pediatrician Psychiatrist 'General Practitioner'"`
}

type UpdateDoctorRequest struct {
	FirstName      *string         `json:"first_name,omitempty"`
	LastName       *string         `json:"last_name,omitempty"`
	Email          *string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string         `json:"phone,omitempty" validate:"omitempty,numeric,max=10"`
	Specialisation *Specialisation `json:"specialisation,omitempty" validate:"omitempty,oneof=Podiatrist Dermatologist Pediatrician Psychiatrist 'General Practitioner'"`
}
