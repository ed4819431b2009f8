package orchestrator

import (
	"github.com/talentlinkco/recruitbot/internal/lang"
	"github.com/talentlinkco/recruitbot/internal/textutil"
)

// replySet holds the canned, non-scripted texts for one language. The
// discovery script itself lives in the stage package; these cover command
// help, confirmations and the general-category fillers.
type replySet struct {
	teachHelp       string
	teachConfirm    string
	translateHelp   string
	introOnce       string
	generalVariants []string
	objection       string
	honorificMale   string
	honorificFemale string
}

var replies = map[lang.Lang]replySet{
	lang.English: {
		teachHelp:     "Please add the answer text after the command, e.g.: I would answer: we start on Monday.",
		teachConfirm:  "Got it, I'll answer that way next time this comes up.",
		translateHelp: "Please add the text to translate, e.g.: translate to Polish: good morning.",
		introOnce:     "Tell me a bit about your situation — which roles are you hiring for, and where?",
		generalVariants: []string{
			"Understood. What would you like to sort out next?",
			"Noted — happy to help with candidates, terms or paperwork. What matters most right now?",
			"Thanks! Shall we go through the details of your request?",
		},
		objection:       "I understand the price question. Our fee only applies once a worker actually starts, and it covers sourcing, vetting and paperwork — most clients find a failed in-house hire costs far more.",
		honorificMale:   "Mr.",
		honorificFemale: "Ms.",
	},
	lang.Russian: {
		teachHelp:     "Добавьте, пожалуйста, текст ответа после команды, например: я бы ответил: начинаем в понедельник.",
		teachConfirm:  "Принято, в следующий раз отвечу именно так.",
		translateHelp: "Добавьте, пожалуйста, текст для перевода, например: переведи на польский: доброе утро.",
		introOnce:     "Расскажите немного о вашей ситуации — какие специальности вы ищете и для какой страны?",
		generalVariants: []string{
			"Понял вас. Что обсудим дальше?",
			"Принято — могу помочь с кандидатами, условиями или документами. Что сейчас важнее всего?",
			"Спасибо! Перейдём к деталям вашего запроса?",
		},
		objection:       "Понимаю вопрос о цене. Наша комиссия платится только после фактического выхода работника и включает подбор, проверку и документы — неудачный найм своими силами обычно обходится дороже.",
		honorificMale:   "господин",
		honorificFemale: "госпожа",
	},
	lang.Ukrainian: {
		teachHelp:     "Додайте, будь ласка, текст відповіді після команди, наприклад: я б відповів: починаємо в понеділок.",
		teachConfirm:  "Прийнято, наступного разу відповім саме так.",
		translateHelp: "Додайте, будь ласка, текст для перекладу, наприклад: переклади польською: доброго ранку.",
		introOnce:     "Розкажіть трохи про вашу ситуацію — які спеціальності ви шукаєте і для якої країни?",
		generalVariants: []string{
			"Зрозумів вас. Що обговоримо далі?",
			"Прийнято — можу допомогти з кандидатами, умовами чи документами. Що зараз найважливіше?",
			"Дякую! Перейдемо до деталей вашого запиту?",
		},
		objection:       "Розумію питання про ціну. Наша комісія сплачується лише після фактичного виходу працівника і включає підбір, перевірку та документи.",
		honorificMale:   "пане",
		honorificFemale: "пані",
	},
	lang.Polish: {
		teachHelp:     "Proszę dodać tekst odpowiedzi po komendzie, np.: odpowiedziałbym: zaczynamy w poniedziałek.",
		teachConfirm:  "Przyjęte, następnym razem odpowiem właśnie tak.",
		translateHelp: "Proszę dodać tekst do tłumaczenia, np.: przetłumacz na angielski: dzień dobry.",
		introOnce:     "Proszę opowiedzieć o swojej sytuacji — jakich stanowisk szukacie i w jakim kraju?",
		generalVariants: []string{
			"Rozumiem. Co omówimy dalej?",
			"Przyjęte — mogę pomóc z kandydatami, warunkami lub dokumentami. Co jest teraz najważniejsze?",
			"Dziękuję! Przejdźmy do szczegółów Państwa zapytania?",
		},
		objection:       "Rozumiem pytanie o cenę. Nasza prowizja jest płatna dopiero po faktycznym rozpoczęciu pracy i obejmuje rekrutację, weryfikację oraz dokumenty.",
		honorificMale:   "Panie",
		honorificFemale: "Pani",
	},
	lang.Czech: {
		teachHelp:     "Přidejte prosím text odpovědi za příkaz, např.: odpověděl bych: začínáme v pondělí.",
		teachConfirm:  "Rozumím, příště odpovím přesně takto.",
		translateHelp: "Přidejte prosím text k překladu, např.: přelož do angličtiny: dobré ráno.",
		introOnce:     "Povězte mi něco o vaší situaci — jaké pozice hledáte a pro kterou zemi?",
		generalVariants: []string{
			"Rozumím. Co probereme dál?",
			"Beru na vědomí — mohu pomoci s kandidáty, podmínkami nebo dokumenty. Co je teď nejdůležitější?",
			"Děkuji! Projdeme podrobnosti vašeho požadavku?",
		},
		objection:       "Rozumím otázce ceny. Naše provize se platí až po skutečném nástupu pracovníka a zahrnuje nábor, prověření i dokumenty.",
		honorificMale:   "pane",
		honorificFemale: "paní",
	},
}

func repliesFor(l lang.Lang) replySet {
	if r, ok := replies[l]; ok {
		return r
	}
	return replies[lang.English]
}

// honorific builds "Mr. Viktor"-style address from the gender heuristic.
// Empty name yields empty string so callers can prefix unconditionally.
func honorific(l lang.Lang, name string) string {
	if name == "" {
		return ""
	}
	r := repliesFor(l)
	if textutil.GuessGender(name) == textutil.GenderFemale {
		return r.honorificFemale + " " + name
	}
	return r.honorificMale + " " + name
}
