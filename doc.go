// Package microframe is a small, batteries-included framework for building
// JSON APIs and hypermedia apps in Go.
//
// Handlers declare what they need - path fields, query fields, a body model,
// dependencies - and the framework binds, sanitizes, and validates those
// inputs before the handler runs. Whatever the handler returns is turned
// into a response: structs become JSON, components render as HTML, and
// errors map to a consistent error envelope.
//
// # Quick Start
//
// Create an application with microframe.New(), register routes, and call
// Run() to start the HTTP server:
//
//	app := microframe.New(
//	    microframe.WithLogger("api"),
//	    microframe.WithHandlers(
//	        handlers.NewUsers(repo),
//	    ),
//	)
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Handlers
//
// A handler receives the request Context and its bound parameters, and
// returns a result plus an error:
//
//	type UsersHandler struct {
//	    repo *repository.Queries
//	}
//
//	func (h *UsersHandler) Routes(r *microframe.Router) {
//	    r.GET("/users/{id}", h.getUser,
//	        microframe.WithParams(microframe.Field("id")),
//	    )
//	    r.POST("/users", h.createUser,
//	        microframe.WithStatus(201),
//	        microframe.WithParams(
//	            microframe.Body("payload", func() any { return &CreateUser{} }),
//	        ),
//	    )
//	}
//
//	func (h *UsersHandler) getUser(c microframe.Context, p microframe.Params) (any, error) {
//	    return h.repo.Find(c, p.String("id"))
//	}
//
// # Routers
//
// Routers nest: group routes under a prefix and shared tags, then include
// the group into the app or another router:
//
//	v1 := microframe.NewRouter("/v1")
//	v1.Include(usersRouter, microframe.IncludeTags("users"))
//	app.Include(v1)
//
// # Dependencies
//
// Dependencies are named providers resolved per request, with optional
// caching and declared sub-dependencies:
//
//	currentUser := microframe.NewDependency("current_user",
//	    func(ctx context.Context, p microframe.Params) (any, error) {
//	        return lookupUser(ctx, p.String("session"))
//	    },
//	).DependsOn(microframe.Depends("session", sessionDep)).Cache()
//
// # Errors
//
// Handler errors map to a JSON envelope. Validation failures answer 422
// with field details, HTTPErrors use their own status, and anything else
// is logged and answered as a generic 500. WithErrorHandler installs a
// custom handler ahead of the built-in mapping.
//
// # Shutdown
//
// Run handles SIGINT/SIGTERM for graceful shutdown. Register cleanup with
// ShutdownHook:
//
//	err := app.Run(":8080",
//	    microframe.ShutdownHook(redis.Shutdown(client)),
//	)
package microframe
