/*
Package interpolate expands environment variable references in the string
values of decoded YAML (or JSON) documents, such as the otapub settings file.

References use the usual shell-like syntax, either unbraced or braced:

	$FOO
	${FOO}

A literal dollar sign is written as “$$”. Braced references support
substitution operators, and the alternative values may contain further
references:

	${FOO:-default}   default if FOO is unset or empty
	${FOO-default}    default only if FOO is unset
	${FOO:?message}   fails with message if FOO is unset or empty
	${FOO?message}    fails with message only if FOO is unset
	${FOO:+other}     other if FOO is set and non-empty, otherwise empty
	${FOO+other}      other if FOO is set, otherwise empty

Alternative values are only expanded when they are actually used, so that
“${FOO:-${BAR:?no BAR}}” doesn't fail as long as FOO has a value.
*/
package interpolate
