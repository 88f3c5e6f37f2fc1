// Package environment propagates the deployment environment (development,
// staging, production) through request contexts and structured logs.
//
//	r.Use(environment.Middleware(environment.Parse(os.Getenv("APP_ENV"))))
//
// Session cookies are only marked Secure when IsProduction reports true for
// the request context.
package environment
