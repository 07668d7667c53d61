package model

import "time"

const (
	MediaTypeImage = "IMAGE"
	MediaTypeVideo = "VIDEO"
)

/*

Media is an uploaded file hosted by the media storage service

Id: primary key
CreatedAt: time when entity is created, used as the retention window
anchor for orphan cleanup

Url: public url of the hosted file
FileId: storage provider's key for the file, needed to delete the blob
Type: MediaTypeImage or MediaTypeVideo
UploaderID: user who uploaded the file. Post creation only claims pending
uploads owned by the post author, so one user cannot attach another
user's upload.
PostID: post this file is attached to. Uploads start detached (nil) and
are attached on post creation. A nil PostID past the retention window
marks the row for garbage collection.

*/

type Media struct {
	Id         string `gorm:"primaryKey"`
	CreatedAt  time.Time
	Url        string
	FileId     string
	Type       string
	UploaderID string  `gorm:"index"`
	PostID     *string `gorm:"index"`
}
