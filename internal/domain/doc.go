// Package domain defines the core business entities of the task tracker
// and the validation rules that keep them consistent.
package domain
