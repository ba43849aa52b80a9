// Package entity holds the persistent models: Member and Team, joined by a
// many-to-one relation, and Item, whose id is assigned by the caller.
//
// Auditing columns are filled by bun model hooks. Importing the package
// registers every model, the member to team foreign key and the sample
// member seeder with the database package.
package entity
