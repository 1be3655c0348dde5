/*
Package ports defines the driven ports (interfaces) of the contact form workflow.

These interfaces decouple the workflow from external implementations, allowing it
to run against various storage backends, delivery services and notification surfaces.

# Key Interfaces

  - StateStore: Responsible for persisting and loading a session's FormState.
  - DistributedLocker: Provides distributed locking for concurrent session access across replicas.
  - Deliverer: The remote submission collaborator that receives validated messages.
  - Notifier: The toast surface that receives one-shot notifications.
  - Publisher: Receives state diffs for live clients.
*/
package ports
