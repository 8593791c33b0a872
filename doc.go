// Package cardex provides an embedded Go client for a card catalog stored
// in a local SQLite file.
//
// The same query engine that backs the cardex HTTP API is available
// in-process:
//
//	client, _ := cardex.New(cardex.WithDatabase("data/cards.db"))
//	defer client.Close()
//
//	page, _ := client.List(ctx, cardex.Query{
//	    CardType: "credit",
//	    Sort:     cardex.SortFeeLow,
//	    Limit:    10,
//	})
//
// Opening is read-only by default; WithReadWrite enables schema creation
// and seeding:
//
//	client, _ := cardex.New(
//	    cardex.WithDatabase("data/cards.db"),
//	    cardex.WithReadWrite(),
//	)
//	records, _ := cardex.LoadSeed("seed/cards.json")
//	_, _ = client.Seed(ctx, records)
package cardex
