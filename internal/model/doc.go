// Package model defines the core data structures used throughout
// the flags-downloader application.
//
// # WorkItem
//
// WorkItem pairs a resource key with the URL it is fetched from:
//
//	item := model.NewWorkItem("br", "https://www.fluentpython.com/data/flags")
//	fmt.Println(item.Key)    // "BR"
//	fmt.Println(item.Target) // ".../flags/br/br.gif"
//
// # Outcome
//
// Every dispatched WorkItem produces exactly one Outcome. The Status field
// tags which variant it is:
//
//	model.Succeeded("BR", payload)
//	model.Missing("XX")
//	model.Failed("YY", model.KindTimeout, "context deadline exceeded")
//	model.Abandoned("ZZ")
//
// # Tally
//
// Tally counts outcomes per Status. It is only ever mutated by a single
// goroutine and is handed to the caller once the batch is finished:
//
//	t := model.NewTally()
//	t.Add(model.StatusSuccess)
//	fmt.Println(t.Total())
package model
