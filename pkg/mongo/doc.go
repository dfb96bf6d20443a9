// Package mongo provides MongoDB connection management for the application.
//
// Configuration is entirely environment-driven, which keeps deployment
// simple across development, staging, and production. The connect path
// retries on transient failures so a briefly unavailable database does not
// kill the process during startup.
//
// # Usage
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Client().Disconnect(context.Background())
//
// Connection failures are wrapped in package sentinel errors; use
// errors.Is to distinguish them.
package mongo
