// Package reducers provides push-based Reducers, and the Collectors which pair
// them into two-level reductions for each family of target container.
//
// Level-A Reducers travel to workers before they are used, so each is either
// described entirely by exported fields, or embeds fresh and travels as
// nothing more than its type.
package reducers
