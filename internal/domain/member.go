package domain

// Member represents user's participation meta for a room.
// No transport or lifecycle logic here.
type Member struct {
	User *User
	Mute bool
}

func NewMember(user *User) *Member {
	return &Member{User: user}
}
