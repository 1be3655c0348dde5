/*
Package domain contains the core domain models for the DevCraft contact form workflow.

It defines the fields a visitor fills in, the validation error taxonomy, the submission
lifecycle and the events emitted around it. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - FormInput: The three text fields of the contact form (name, email, message).
  - ValidationErrors: Per-field errors produced by a submit attempt.
  - SubmissionState: The Idle, Submitting, Submitted lifecycle.
  - FormState: The runtime snapshot of one visitor's form session.
  - Notification: A toast the workflow emits to the notifier collaborator.
  - Submission: The message handed to the delivery collaborator.
*/
package domain
