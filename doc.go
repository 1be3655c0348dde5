/*
Package devcraft serves the DevCraft marketing site and its contact form.

The site is rendered server-side from embedded content. The contact form is a
per-visitor workflow with three states:

	Idle --valid submit--> Submitting --delivered--> Submitted --reset delay--> Idle
	  ^                         |
	  +------delivery failed----+

Edits are accepted only while Idle. A failed delivery returns the form to Idle with
the entered values intact and a failure toast; leaving the page cancels whatever
the session still has pending.

# Architecture

The package is a thin facade over a hexagonal core:

  - pkg/form: the pure state machine (sanitising, validation, transitions).
  - pkg/contact: per-session orchestration, delivery and reset tasks.
  - pkg/ports: storage, locking, delivery and notification interfaces.
  - pkg/adapters: memory and redis stores, simulated and sqlite delivery, HTTP.

# Usage

	app, err := devcraft.New(ctx, config.Default(), devcraft.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}
	defer app.Shutdown(ctx)

	http.ListenAndServe(":8080", app.Handler())
*/
package devcraft
