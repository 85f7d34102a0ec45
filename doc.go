// Package veloxq provides a fluent DSL for building SQL SELECT statements on
// top of ent's dialect/sql builder and driver.
//
// A query is described by a body function that receives a *Scope. The body
// declares sources and joins, registers transforms (filtering, grouping,
// ordering, distinctness, paging) and finally selects what each result row
// decodes to:
//
//	q, err := veloxq.Query(func(s *veloxq.Scope) veloxq.Result[veloxq.Pair[int64, string]] {
//	    actors := veloxq.From(s, starwars.Actors)
//	    roles := veloxq.InnerJoin(s, starwars.Roles, nil)
//	    s.GroupBy(actors.Name)
//	    return veloxq.Select2(s, expr.Count(roles.CharacterName), actors.Name)
//	})
//	if err != nil {
//	    return err
//	}
//	for p, err := range q.All(ctx, drv) {
//	    ...
//	}
//
// # Resolution
//
// Sources are combined left to right. The first declared source must be a
// root source declared with From. Later root sources are combined with the
// running source using the configured source join (FULL by default) with no
// condition. Joins declared without a condition infer it from the foreign
// keys declared with Reference.
//
// Transforms apply in declaration order. Filtering, grouping, ordering and
// distinctness declared after Limit or Offset apply to the paged rows.
//
// Computed expressions in the select list are aliased __alias1, __alias2 and
// so on. Rows are decoded by expression identity, so aliases never surface in
// the API.
//
// # Sub-queries
//
// SubQuery resolves a body into a *Statement without executing it.
// Statement.As embeds it as a source of another query and Ref re-targets
// its expressions to the embedding.
package veloxq
