package model

import "time"

// User represents an account able to authenticate against the API.
// Role is one of GUEST, PARTNER or ADMIN and controls which route
// groups the account may call.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique login identifier, stored lower-cased.
//  PasswordHash – bcrypt hash of the password.
//  Role         – GUEST | PARTNER | ADMIN.
//  IsActive     – soft-disable flag for the account.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
