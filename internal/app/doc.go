// Package app is the composition root for statview.
//
// # Overview
//
// Setup loads configuration, opens the log file and the local database, and
// connects the statistics client, the shared query cache and the favorites
// service. Run hands those services to the TUI; the cobra subcommands call
// Setup directly and use the same services without a terminal UI.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Setup()    │
//	└──────┬───────┘
//	       ├─────> config.Load()        config.toml + environment
//	       ├─────> logging.Open()       dated log file with session id
//	       ├─────> statista.NewClient() rate limited HTTP client
//	       ├─────> localstore.Open()    sqlite key/value storage
//	       ├─────> query.NewClient()    session-wide cache
//	       └─────> favorites.NewService()
//
//	┌──────────────┐
//	│    Run()     │
//	└──────┬───────┘
//	       ├─────> prefs.Load()         theme and source preference
//	       ├─────> StartJanitor()       periodic cache eviction
//	       └─────> ui.Run()             blocks until quit
//
// # Error Handling
//
// Configuration, log and database failures are fatal and returned from Setup.
// Everything after startup is reported inside the UI and never ends the
// program.
package app
