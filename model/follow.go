package model

import "time"

/*

Follow is a directed edge of one user following another

FollowerID: user who follows
FollowingID: user being followed
CreatedAt: time when relation is created

The composite primary key makes the edge unique per ordered pair, which
is the only mutual exclusion needed for concurrent follow calls.

*/

type Follow struct {
	FollowerID  string `gorm:"primaryKey"`
	FollowingID string `gorm:"primaryKey"`
	CreatedAt   time.Time
}
