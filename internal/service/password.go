package service

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const minPasswordLength = 8

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwertyuiop": {}, "qwerty123": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "abc12345": {},
	"11111111": {}, "00000000": {}, "88888888": {}, "superman": {}, "trustno1": {},
	"letmein1": {}, "dragon123": {}, "senha123": {}, "mudar123": {}, "admin123": {},
	"passw0rd": {}, "starwars": {}, "whatever": {}, "computer": {}, "internet": {},
}

// passwordProblems returns human readable reasons the password is too weak.
// The email is used to reject passwords that merely repeat the login.
func passwordProblems(password, email string) []string {
	var problems []string

	if len([]rune(password)) < minPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}
	if isAllDigits(password) {
		problems = append(problems, "This password is entirely numeric.")
	}
	if tooSimilarToEmail(password, email) {
		problems = append(problems, "The password is too similar to the email address.")
	}
	return problems
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// maxEmailSimilarity is the character overlap ratio at which a password counts as a copy of the email.
const maxEmailSimilarity = 0.7

// tooSimilarToEmail compares the password with the whole email and with each
// of its alphanumeric parts.
func tooSimilarToEmail(password, email string) bool {
	p := strings.ToLower(password)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}

	local, _, _ := strings.Cut(email, "@")
	parts := strings.FieldsFunc(email, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	parts = append(parts, local, email)

	for _, part := range parts {
		if part == "" || lengthOutOfReach(p, part) {
			continue
		}
		if overlapRatio(p, part) >= maxEmailSimilarity {
			return true
		}
	}
	return false
}

// lengthOutOfReach skips attributes too short to resemble a long password.
func lengthOutOfReach(password, part string) bool {
	pwdLen := utf8.RuneCountInString(password)
	partLen := utf8.RuneCountInString(part)
	return pwdLen >= 10*partLen && float64(partLen) < maxEmailSimilarity/2*float64(pwdLen)
}

// overlapRatio is 2*M/T where M counts characters shared by a and b
// (with multiplicity) and T is their combined length.
func overlapRatio(a, b string) float64 {
	counts := make(map[rune]int)
	for _, r := range b {
		counts[r]++
	}
	matches := 0
	for _, r := range a {
		if counts[r] > 0 {
			counts[r]--
			matches++
		}
	}
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}
	return 2 * float64(matches) / float64(total)
}
