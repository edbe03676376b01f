// Package domain contains the core business entities, value objects, and
// domain logic of the application: jobs moving through the processing
// lifecycle and the action items extracted from them. It is independent of
// any specific infrastructure or delivery mechanism.
package domain
