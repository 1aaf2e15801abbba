package models

// Enriched views. Counts are derived at read time from the other store and never persisted.

// PostView is a Store A post merged with its Store B tags and comment count.
type PostView struct {
	Post
	Tags         []TagRef `json:"tags"`
	TagCount     int      `json:"tagCount"`
	CommentCount int      `json:"commentCount"`
}

// UserView is a Store A user with its Store B comment count.
type UserView struct {
	User
	CommentCount int `json:"commentCount"`
}

// CommentView is a Store B comment with author and post projections from Store A.
// Author or Post stays nil when the referenced row no longer exists.
type CommentView struct {
	Comment
	Author *UserRef `json:"author,omitempty"`
	Post   *PostRef `json:"post,omitempty"`
}

// TagView is a Store B tag with its bridge post count.
type TagView struct {
	Tag
	PostCount int `json:"postCount"`
}

// CommentDetail is a comment joined in-application with its author's name and email.
type CommentDetail struct {
	Comment
	AuthorName  *string `json:"authorName,omitempty"`
	AuthorEmail *string `json:"authorEmail,omitempty"`
}

// PostDetails is the "post with everything" view: full comments and full tag rows.
type PostDetails struct {
	Post
	Tags         []Tag           `json:"tags"`
	Comments     []CommentDetail `json:"comments"`
	TagCount     int             `json:"tagCount"`
	CommentCount int             `json:"commentCount"`
}

// UserComment is a comment joined in-application with the title of its post.
type UserComment struct {
	Comment
	PostTitle *string `json:"postTitle,omitempty"`
}

// UserWithComments is a user view plus the user's full comments.
type UserWithComments struct {
	UserView
	Comments []UserComment `json:"comments"`
}

// TagWithPosts is a tag view plus the Store A posts linked to it.
type TagWithPosts struct {
	TagView
	Posts []Post `json:"posts"`
}

// PopularTag is a tag ranked by the number of posts linked to it.
type PopularTag struct {
	Tag
	PostCount int `json:"postCount"`
}
