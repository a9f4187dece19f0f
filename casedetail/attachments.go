package casedetail

import "github.com/citizenvoice/pqrs-dashboard-api/models"

// AttachmentSet is the parsed attachment list partitioned by media kind.
// A text attachment is supplementary inline content, kept apart from the
// downloadable buckets.
type AttachmentSet struct {
	Images    []models.Attachment
	Documents []models.Attachment
	Audio     []models.Attachment
	Videos    []models.Attachment
	Text      *models.Attachment
}

// PartitionAttachments filters the record's parsed attachment list into
// per-kind buckets
func PartitionAttachments(c models.Case) AttachmentSet {
	var set AttachmentSet
	for _, att := range c.ParsedAttachments() {
		att := att
		switch att.Type {
		case models.AttachmentImage:
			set.Images = append(set.Images, att)
		case models.AttachmentDocument:
			set.Documents = append(set.Documents, att)
		case models.AttachmentAudio:
			set.Audio = append(set.Audio, att)
		case models.AttachmentVideo:
			set.Videos = append(set.Videos, att)
		case models.AttachmentText:
			if set.Text == nil {
				set.Text = &att
			}
		}
	}
	return set
}
