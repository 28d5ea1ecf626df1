// Package model holds the types shared by the pipeline and its options: the description of a stage as the options
// see it and the hooks an option implements.
package model
