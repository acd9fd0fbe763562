// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8470)
  - DatabaseURL: PostgreSQL connection string (required for postgres store)
  - StoreType: "postgres" (default) or "memory"
  - AdminKey: Secret for the X-Admin-Key header (required)
  - ConfirmTimeout: Window for confirming destructive actions (default: 5s)

# CLI Flags

	-p               Server port
	-d               Database URL
	-store           Store type
	-confirm-timeout Confirm window in seconds
	-admin-key       Admin API key (prefer env)

# Environment Variables

Flags fall back to environment variables:

	PORT                    → -p
	DATABASE_URL            → -d
	STORE_TYPE              → -store
	CONFIRM_TIMEOUT_SECONDS → -confirm-timeout
	ADMIN_KEY               → -admin-key

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - ADMIN_KEY must be provided
  - DATABASE_URL must be provided when the store type is postgres
*/
package cliparse
