// Package app provides the orchestration layer for the storefront client.
//
// # Overview
//
// This package wires together configuration, local storage, the API
// client, the domain stores, and the UI. It is the composition root:
// nothing else imports everything, and nothing here contains domain
// logic.
//
// # Startup Sequence
//
//  1. Load configuration (file plus STOREFRONT_* overrides)
//  2. Open the local storage directory
//  3. Restore the session and attach it to the API client as its
//     token source
//  4. Restore the cart
//  5. Hydrate the catalog controller from the persisted browsing
//     location, or from a deep-link query when one was given
//  6. Revalidate a restored session in the background
//  7. Start the TUI and block until the user quits or the context
//     cancels
//
// Wire performs steps 1-5 and is usable headless; Run adds the rest.
package app
