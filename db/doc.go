// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the connection pool and schema creation.

# Pool

Open builds a bounded pool for PostgreSQL (lib/pq) or SQLite (modernc):

	pool, err := db.Open(cfg)

Stores never touch the pool's connections directly. They go through Run and
RunTx, which acquire a connection under the configured acquire timeout:

	err := pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		// several statements, committed together
	})

A caller that cannot get a connection in time receives an apperr.Timeout
instead of blocking. Once acquired, statements run on a context detached from
request cancellation.

Queries are written with ? placeholders and passed through pool.Rebind so the
same text works on both drivers.

# Schema Creation

	if err := db.CreateSchema(ctx, pool); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Relationships

	app_user 1──* group_member *──1 travel_group
	app_user 1──* travel *──0..1 travel_group
	travel 1──* itinerary 1──* itinerary_place *──1 place
	travel 1──* photo *──0..1 place

Group deletion cascades to members and detaches travels. Travel deletion
cascades to itineraries and photos. Place deletion cascades to itinerary
links and detaches photos.
*/
package db
