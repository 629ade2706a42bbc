package notifier

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
	"github.com/sortie-unique/agency-api/internal/models"
)

type Notifier interface {
	NotifyBooking(booking models.Booking, trip models.Trip) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) NotifyBooking(booking models.Booking, trip models.Trip) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	couponStr := ""
	if booking.CouponCode != nil {
		couponStr = fmt.Sprintf("\n**Coupon:** %s (%.0f%% off)", *booking.CouponCode, booking.Discount)
	}
	notesStr := ""
	if booking.Notes != "" {
		notesStr = fmt.Sprintf("\n**Notes:** %s", booking.Notes)
	}

	message := fmt.Sprintf("🧳 **New Booking Request**\n**Name:** %s\n**Phone:** %s\n**Trip:** %s\n**People:** %d\n**Status:** %s%s%s",
		booking.Name,
		booking.Phone,
		trip.Title,
		booking.People,
		booking.Status,
		couponStr,
		notesStr,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		logrus.WithError(err).Error("Failed to send discord message")
		return err
	}

	return nil
}
