/*
Package function provides small generic helpers for building the callbacks
that stream stages and terminal operations accept.

# Functions

Function, BiFunction and Supplier name the shapes used by Map, Fold and
Generate. AndThen and Compose chain functions of possibly different types:

	parse := function.AndThen(strings.TrimSpace, strconv.Quote)

Chain and Pipe compose any number of same-typed functions.

# Predicates

Predicate values compose with And, Or and Negate, or with the free functions
Not, All and Any:

	valid := function.Predicate[string](isNonEmpty).And(isASCII)
	s.Filter(valid)

# Comparators

A Comparator returns a negative number, zero or a positive number, matching
cmp.Compare, and plugs directly into Sorted, Min and Max:

	byAge := function.Comparing(func(p Person) int { return p.Age })
	s.Sorted(byAge.ThenComparing(function.Comparing(func(p Person) string { return p.Name })))
	s.Sorted(function.ReverseOrder[int]())
*/
package function
