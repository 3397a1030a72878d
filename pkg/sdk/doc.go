// Package dirmaker embeds the dirmaker directory filter in a Go program.
//
// A Client loads a catalog of items from a YAML data file, from in-memory
// YAML or from a key in Valkey/Redis, and answers faceted and tokenized
// search queries over it. Facets combine with OR within a taxonomy and AND
// across taxonomies; a search query matches when every query token is a
// substring of some item token.
//
// # Stateless filtering
//
//	client, _ := dirmaker.New(ctx,
//	    dirmaker.WithFile("data.yml"),
//	    dirmaker.WithTaxonomies("language", "license"),
//	)
//	res, _ := client.Filter([]dirmaker.Facet{{Taxonomy: "language", Value: "go"}}, "router")
//
// # Interactive filtering
//
//	f, _ := client.NewFilter(func(r dirmaker.Result) { render(r.Items) })
//	_, _ = f.Check("language", "go", true)
//	f.Search("rout")
//	f.ToggleAll("license")
package dirmaker
