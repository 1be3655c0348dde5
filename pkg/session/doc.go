/*
Package session implements session management and persistence orchestration.

It serialises access to each visitor's form state, integrating local refcounted
locks with an optional distributed lock so several replicas can share one store.
*/
package session
