// Package rule implements the rule micro-language embedded in story data.
//
// A rule string has the shape name(arg, arg, key=value). Parse turns such a
// string into a DataRule; Compile checks the rule against the closed set of
// built-in kinds and returns a Rule variant; an Interpreter evaluates rules
// into concrete values.
//
// Built-in kinds:
//
//	random(min, max)        uniform int in [min, max], or float if either bound is a float
//	static(value)           the argument verbatim
//	random_text(category)   a phrase for "onboarding", otherwise a generated sentence
//
// Strings that do not have the name(...) shape are not rules and pass
// through ResolveData untouched. A string that has the shape but names an
// unknown kind, or calls a known kind with the wrong arguments, is an error.
package rule
