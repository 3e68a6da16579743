package notify

import (
	"fmt"
	"time"

	"github.com/spec-kit/staffing-service/internal/domain"
)

// Kind identifies a notification variant on the wire and in logs.
type Kind string

const (
	KindApplicationSubmitted Kind = "application_submitted"
	KindApplicationStatus    Kind = "application_status"
	KindNewApplication       Kind = "new_application"
	KindBookingConfirmed     Kind = "booking_confirmed"
	KindShiftReminder        Kind = "shift_reminder"
	KindCredentialsVerified  Kind = "credentials_verified"
)

// Message is the closed set of notifications the service emits. Each variant
// renders its own subject and body, so adding a variant without a rendering
// is a compile error rather than a silently unhandled type tag.
type Message interface {
	Kind() Kind
	Recipient() string
	Render() (subject, body string)
}

// ApplicationSubmitted confirms to a therapist that their application went in.
type ApplicationSubmitted struct {
	To         string
	ShiftTitle string
	StartTime  time.Time
}

func (ApplicationSubmitted) Kind() Kind          { return KindApplicationSubmitted }
func (m ApplicationSubmitted) Recipient() string { return m.To }

func (m ApplicationSubmitted) Render() (string, string) {
	return fmt.Sprintf("Application received: %s", m.ShiftTitle),
		fmt.Sprintf("Your application for %q (starting %s) has been submitted. The organizer will review it shortly.",
			m.ShiftTitle, m.StartTime.Format(time.RFC1123))
}

// NewApplication alerts an organizer that a therapist applied to their shift.
type NewApplication struct {
	To            string
	ShiftTitle    string
	TherapistName string
}

func (NewApplication) Kind() Kind          { return KindNewApplication }
func (m NewApplication) Recipient() string { return m.To }

func (m NewApplication) Render() (string, string) {
	return fmt.Sprintf("New application for %s", m.ShiftTitle),
		fmt.Sprintf("%s has applied to your shift %q. Review the application to accept or reject it.",
			m.TherapistName, m.ShiftTitle)
}

// ApplicationStatus tells a therapist their application was decided.
type ApplicationStatus struct {
	To         string
	ShiftTitle string
	Status     domain.ApplicationStatus
}

func (ApplicationStatus) Kind() Kind          { return KindApplicationStatus }
func (m ApplicationStatus) Recipient() string { return m.To }

func (m ApplicationStatus) Render() (string, string) {
	if m.Status == domain.ApplicationStatusAccepted {
		return fmt.Sprintf("You're booked: %s", m.ShiftTitle),
			fmt.Sprintf("Your application for %q was accepted. A confirmed booking has been created for you.", m.ShiftTitle)
	}
	return fmt.Sprintf("Application update: %s", m.ShiftTitle),
		fmt.Sprintf("Your application for %q was not selected this time.", m.ShiftTitle)
}

// BookingConfirmed tells an organizer their shift is now filled.
type BookingConfirmed struct {
	To            string
	ShiftTitle    string
	TherapistName string
	StartTime     time.Time
}

func (BookingConfirmed) Kind() Kind          { return KindBookingConfirmed }
func (m BookingConfirmed) Recipient() string { return m.To }

func (m BookingConfirmed) Render() (string, string) {
	return fmt.Sprintf("Shift filled: %s", m.ShiftTitle),
		fmt.Sprintf("%s is confirmed for %q starting %s.",
			m.TherapistName, m.ShiftTitle, m.StartTime.Format(time.RFC1123))
}

// ShiftReminder nudges a therapist ahead of a booked shift.
type ShiftReminder struct {
	To         string
	ShiftTitle string
	Location   string
	StartTime  time.Time
	HoursUntil float64
}

func (ShiftReminder) Kind() Kind          { return KindShiftReminder }
func (m ShiftReminder) Recipient() string { return m.To }

func (m ShiftReminder) Render() (string, string) {
	return fmt.Sprintf("Upcoming shift: %s", m.ShiftTitle),
		fmt.Sprintf("Reminder: your shift %q at %s starts %s (in about %.0f hours).",
			m.ShiftTitle, m.Location, m.StartTime.Format(time.RFC1123), m.HoursUntil)
}

// CredentialsVerified tells a therapist their credentials passed review.
type CredentialsVerified struct {
	To   string
	Name string
}

func (CredentialsVerified) Kind() Kind          { return KindCredentialsVerified }
func (m CredentialsVerified) Recipient() string { return m.To }

func (m CredentialsVerified) Render() (string, string) {
	return "Credentials verified",
		fmt.Sprintf("Hi %s, your professional credentials have been verified. You can now apply to shifts.", m.Name)
}
