package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Education is the six-tier ordered schooling ladder shared by candidates and job requirements.
type Education int

const (
	EducationFundamental Education = iota + 1
	EducationHighSchool
	EducationTechnologist
	EducationUndergraduate
	EducationPostgraduate
	EducationDoctorate
)

// DefaultEducation is assigned to candidates that do not state their schooling.
const DefaultEducation = EducationHighSchool

var educationLabels = map[Education]string{
	EducationFundamental:   "Ensino fundamental",
	EducationHighSchool:    "Ensino médio",
	EducationTechnologist:  "Tecnólogo",
	EducationUndergraduate: "Ensino superior",
	EducationPostgraduate:  "Pós / MBA / Mestrado",
	EducationDoctorate:     "Doutorado",
}

func (e Education) Valid() bool {
	return e >= EducationFundamental && e <= EducationDoctorate
}

func (e Education) String() string {
	if label, ok := educationLabels[e]; ok {
		return label
	}
	return fmt.Sprintf("Education(%d)", int(e))
}

// AtLeast reports whether e meets the minimum tier.
func (e Education) AtLeast(min Education) bool {
	return e >= min
}

// Educations lists every tier in ascending order.
func Educations() []Education {
	return []Education{
		EducationFundamental,
		EducationHighSchool,
		EducationTechnologist,
		EducationUndergraduate,
		EducationPostgraduate,
		EducationDoctorate,
	}
}

// ParseEducation accepts the numeric tier ("1".."6").
func ParseEducation(s string) (Education, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse education %q: %w", s, ErrInvalidInput)
	}
	e := Education(n)
	if !e.Valid() {
		return 0, fmt.Errorf("education %d out of range: %w", n, ErrInvalidInput)
	}
	return e, nil
}
