/*
Package contact runs the contact form workflow for every visitor session.

The Service owns the asynchronous half of the lifecycle that the pure form.Engine
cannot: it hands validated messages to a ports.Deliverer on a session-scoped task,
reports the outcome through a ports.Notifier, and schedules the automatic reset
once the confirmation has been on display for the reset delay.

	idle --submit(valid)--> submitting --delivered--> submitted --reset delay--> idle
	                             \--rejected--> idle (values kept)

Every task belongs to exactly one session. Close cancels the session's task before
removing its state, so a late delivery result or reset can never resurrect it.
*/
package contact
