// Package client contains client-side building blocks for nearwave.
//
// It provides:
//  1. A transport-agnostic contract (see the API interface) to talk to the
//     remote directory/follow service: ListUsers, ListFollows,
//     ListAllFollows, CreateFollow, DeleteFollow.
//  2. A concrete HTTP implementation (see HTTPClient) that speaks the
//     service's JSON interface and maps response statuses to sentinel
//     errors from internal/common.
//  3. Local persistence bootstrap (OpenDatabase) wiring an SQLite database
//     and applying embedded goose migrations.
//
// Common failure conditions surface as sentinel errors matched with
// errors.Is: common.ErrNotFound, common.ErrValidation, common.ErrUnavailable.
// All operations accept context.Context and honor cancellation/timeouts.
package client
