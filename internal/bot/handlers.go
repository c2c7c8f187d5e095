package bot

import (
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/wanokuni/internal/engine"
	"github.com/example/wanokuni/internal/session"
	"github.com/example/wanokuni/internal/srs"
	"github.com/example/wanokuni/pkg/models"
)

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.handleHelp(chatID)
	case "lessons":
		b.handleLessons(chatID)
	case "reviews":
		b.handleReviews(chatID)
	case "stats":
		b.handleStats(chatID)
	case "level":
		b.handleLevel(chatID)
	case "next":
		b.handleNext(chatID)
	default:
		b.sendf(chatID, "Unknown command. Send /help for the list of commands.")
	}
}

func (b *Bot) handleStart(chatID int64) {
	if err := b.progress.BindChat(chatID); err != nil {
		log.Printf("bot: binding chat %d failed: %v", chatID, err)
	}

	b.sendf(chatID,
		"👋 Welcome to WanoKuni!\n\n"+
			"You are on level %d.\n"+
			"📚 Lessons waiting: %d\n"+
			"🔁 Reviews due: %d\n\n"+
			"Send /lessons or /reviews to study, /help for everything else.",
		b.engine.CurrentLevel(), b.engine.LessonCount(), b.engine.ReviewCount())
}

func (b *Bot) handleHelp(chatID int64) {
	b.sendf(chatID,
		"/lessons - learn new items in batches\n"+
			"/reviews - answer everything that is due\n"+
			"/stats - progress across the SRS stages\n"+
			"/level - current curriculum level\n"+
			"/next - when the next review comes due")
}

func (b *Bot) handleLessons(chatID int64) {
	if b.engine.LessonCount() == 0 {
		b.sendf(chatID, "No lessons right now. Guru your current items to unlock more.")
		return
	}

	s := session.NewLesson(b.engine, b.config.LessonBatchSize, nil)
	b.lessons[chatID] = s
	delete(b.reviews, chatID)

	b.sendf(chatID, "📚 Lesson session: %d batch(es). First, study each item; the quiz follows.", s.Batches())
	b.sendTeachingCard(chatID, s)
}

func (b *Bot) handleReviews(chatID int64) {
	s := session.NewReview(b.engine, nil)
	if s.Len() == 0 {
		b.sendf(chatID, "Nothing is due. 🎉")
		return
	}
	b.reviews[chatID] = s
	delete(b.lessons, chatID)

	b.sendf(chatID, "🔁 Review session: %d question(s).", s.Len())
	b.sendReviewPrompt(chatID, s)
}

func (b *Bot) handleStats(chatID int64) {
	stats := b.engine.Stats()
	b.sendf(chatID,
		"📊 Progress (%d records)\n\n"+
			"Apprentice: %d\nGuru: %d\nMaster: %d\nEnlightened: %d\nBurned: %d",
		stats.Total, stats.Apprentice, stats.Guru, stats.Master, stats.Enlightened, stats.Burned)
}

func (b *Bot) handleLevel(chatID int64) {
	detail := b.engine.DetailedStats()
	cl := detail.CurrentLevel

	line := func(name string, c models.LevelCounts) string {
		return fmt.Sprintf("%s - %d lessons, %d apprentice, %d guru+",
			name, c.Lessons, c.Apprentice, c.Guru+c.Master+c.Enlightened+c.Burned)
	}
	b.sendf(chatID, "📈 Level %d\n\n%s\n%s\n%s",
		b.engine.CurrentLevel(),
		line("Radicals", cl.Radical),
		line("Kanji", cl.Kanji),
		line("Vocabulary", cl.Vocabulary))
}

func (b *Bot) handleNext(chatID int64) {
	if due := b.engine.ReviewCount(); due > 0 {
		b.sendf(chatID, "%d review(s) are due right now - /reviews.", due)
		return
	}
	d, ok := b.engine.NextReviewIn()
	if !ok {
		b.sendf(chatID, "Nothing is scheduled yet.")
		return
	}
	b.sendf(chatID, "Next review in %s.", d.Round(time.Second))
}

// handleAnswer routes plain text into the chat's running session.
func (b *Bot) handleAnswer(chatID int64, text string) {
	if s, ok := b.reviews[chatID]; ok {
		b.handleReviewAnswer(chatID, s, text)
		return
	}
	if s, ok := b.lessons[chatID]; ok {
		b.handleLessonInput(chatID, s, text)
		return
	}
	b.sendf(chatID, "No session is running. Send /lessons or /reviews.")
}

func (b *Bot) handleReviewAnswer(chatID int64, s *session.Review, text string) {
	out := s.Answer(text)
	b.sendOutcome(chatID, out)

	if s.Done() {
		delete(b.reviews, chatID)
		b.sendf(chatID, "✅ Session finished: %d correct, %d incorrect.", s.Correct, s.Incorrect)
		return
	}
	if out.Final() {
		b.sendReviewPrompt(chatID, s)
	}
}

// handleLessonInput advances teaching on any input and treats quiz-phase
// input as an answer.
func (b *Bot) handleLessonInput(chatID int64, s *session.Lesson, text string) {
	if s.Phase() == session.PhaseTeaching {
		s.AdvanceTeaching()
		if s.Phase() == session.PhaseQuiz {
			b.sendf(chatID, "📝 Quiz time for this batch!")
			b.sendLessonPrompt(chatID, s)
		} else {
			b.sendTeachingCard(chatID, s)
		}
		return
	}

	prevBatch := s.BatchNumber()
	out := s.Answer(text)
	b.sendOutcome(chatID, out)
	if !out.Final() {
		return
	}

	if s.Done() {
		delete(b.lessons, chatID)
		b.sendf(chatID, "🎓 All lessons done: %d correct, %d incorrect. First reviews in 4 hours.", s.Correct, s.Incorrect)
		return
	}

	if s.BatchNumber() != prevBatch {
		b.sendf(chatID, "Batch %d of %d - new items coming up.", s.BatchNumber(), s.Batches())
		b.sendTeachingCard(chatID, s)
		return
	}
	b.sendLessonPrompt(chatID, s)
}

func (b *Bot) sendOutcome(chatID int64, out session.Outcome) {
	switch out.Verdict {
	case session.VerdictHint:
		switch out.Hint {
		case engine.HintOnYomi:
			b.sendf(chatID, "💡 That reading exists, but this kanji teaches its on'yomi. Try again.")
		case engine.HintKunYomi:
			b.sendf(chatID, "💡 That reading exists, but this kanji teaches its kun'yomi. Try again.")
		}
	case session.VerdictRetry:
		b.sendf(chatID, "❌ Not quite - one more try.")
	case session.VerdictCorrect:
		b.sendf(chatID, "✅ Correct!%s", stageNote(out))
	case session.VerdictPartial:
		b.sendf(chatID, "🟡 Correct on the retry - smaller step up.%s", stageNote(out))
	case session.VerdictIncorrect:
		b.sendf(chatID, "❌ Incorrect. It will come around again this session.%s", stageNote(out))
	}

	if out.Submit.NewLevel > 0 {
		b.sendf(chatID, "🎉 Level up! You reached level %d - new lessons are waiting.", out.Submit.NewLevel)
	} else if len(out.Submit.Unlocked) > 0 {
		b.sendf(chatID, "🔓 %d new item(s) unlocked for lessons.", len(out.Submit.Unlocked))
	}
}

// stageNote renders the stage a scored review moved the record to.
// Lesson quizzes carry no engine result and get no note.
func stageNote(out session.Outcome) string {
	if out.Submit.Record == nil {
		return ""
	}
	return fmt.Sprintf(" Now %s.", srs.StageName(out.Submit.Record.SRSStage))
}

func (b *Bot) sendReviewPrompt(chatID int64, s *session.Review) {
	q, ok := s.Current()
	if !ok {
		return
	}
	b.sendf(chatID, "(%d left) %s", s.Remaining(), b.promptFor(q.Key))
}

func (b *Bot) sendLessonPrompt(chatID int64, s *session.Lesson) {
	q, ok := s.Current()
	if !ok {
		return
	}
	b.sendf(chatID, "%s", b.promptFor(q.Key))
}

// sendTeachingCard shows the unscored study card for the current lesson
// item.
func (b *Bot) sendTeachingCard(chatID int64, s *session.Lesson) {
	q, ok := s.Current()
	if !ok {
		return
	}

	card := b.teachingCard(q.Key)
	b.sendf(chatID, "%s\n\nSend anything to continue.", card)
}

func (b *Bot) promptFor(key models.ProgressKey) string {
	cat := b.engine.Catalog()
	switch key.Type {
	case models.TypeRadical:
		if r := cat.Radical(key.ID); r != nil {
			return fmt.Sprintf("Radical %s - meaning?", r.Character)
		}
	case models.TypeKanji:
		if k := cat.Kanji(key.ID); k != nil {
			if key.Question == models.QuestionReading {
				return fmt.Sprintf("Kanji %s - reading?", k.Character)
			}
			return fmt.Sprintf("Kanji %s - meaning?", k.Character)
		}
	case models.TypeVocabulary:
		if v := cat.Vocabulary(key.ID); v != nil {
			if key.Question == models.QuestionReading {
				return fmt.Sprintf("Vocabulary %s - reading?", v.Characters)
			}
			return fmt.Sprintf("Vocabulary %s - meaning?", v.Characters)
		}
	}
	return "…?"
}

func (b *Bot) teachingCard(key models.ProgressKey) string {
	cat := b.engine.Catalog()
	var sb strings.Builder

	switch key.Type {
	case models.TypeRadical:
		r := cat.Radical(key.ID)
		if r == nil {
			return "…"
		}
		fmt.Fprintf(&sb, "Radical %s (level %d)\nMeanings: %s", r.Character, r.Level, strings.Join(r.Meanings, ", "))
		b.appendMnemonic(&sb, r.Character, r.Meanings)

	case models.TypeKanji:
		k := cat.Kanji(key.ID)
		if k == nil {
			return "…"
		}
		fmt.Fprintf(&sb, "Kanji %s (level %d)\nMeanings: %s", k.Character, k.Level, strings.Join(k.Meanings, ", "))
		if len(k.OnReadings) > 0 {
			fmt.Fprintf(&sb, "\nOn'yomi: %s", strings.Join(k.OnReadings, ", "))
		}
		if len(k.KunReadings) > 0 {
			fmt.Fprintf(&sb, "\nKun'yomi: %s", strings.Join(k.KunReadings, ", "))
		}
		b.appendMnemonic(&sb, k.Character, k.Meanings)
		b.appendReadingMnemonic(&sb, k)

	case models.TypeVocabulary:
		v := cat.Vocabulary(key.ID)
		if v == nil {
			return "…"
		}
		fmt.Fprintf(&sb, "Vocabulary %s (level %d)\nMeanings: %s", v.Characters, v.Level, strings.Join(v.Meanings, ", "))
		if len(v.Readings) > 0 {
			fmt.Fprintf(&sb, "\nReadings: %s", strings.Join(v.Readings, ", "))
		}
		b.appendMnemonic(&sb, v.Characters, v.Meanings)
	}

	return sb.String()
}

func (b *Bot) appendMnemonic(sb *strings.Builder, character string, meanings []string) {
	if b.mnemonic == nil {
		return
	}
	m, err := b.mnemonic.GenerateMnemonic(character, meanings)
	if err != nil {
		log.Printf("bot: mnemonic for %s failed: %v", character, err)
		return
	}
	fmt.Fprintf(sb, "\n💭 %s", m)
}

func (b *Bot) appendReadingMnemonic(sb *strings.Builder, k *models.Kanji) {
	if b.mnemonic == nil {
		return
	}
	reading := k.PrimaryOnReading
	if reading == "" {
		reading = k.PrimaryKunReading
	}
	if reading == "" {
		return
	}
	m, err := b.mnemonic.GenerateReadingMnemonic(k.Character, reading)
	if err != nil {
		log.Printf("bot: reading mnemonic for %s failed: %v", k.Character, err)
		return
	}
	fmt.Fprintf(sb, "\n🔊 %s", m)
}
