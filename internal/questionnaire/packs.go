package questionnaire

import "atelier/internal/models"

// builtinPacks holds the questionnaires shipped with the application.
// Languages missing here use the French pack.
var builtinPacks = map[models.Language]Pack{
	models.LangFR: {
		models.ActivityStory: {
			{Prompt: "Héros/héroïne ?", Suggestions: []string{"Fillette curieuse", "Garçon inventeur", "Chat qui parle"}},
			{Prompt: "Lieu ?", Suggestions: []string{"Cour d’école", "Forêt magique", "Bus scolaire"}},
			{Prompt: "Objectif ?", Suggestions: []string{"Retrouver un trésor", "Aider un ami", "Gagner un concours"}},
			{Prompt: "Obstacle ?", Suggestions: []string{"Orage", "Rival jaloux", "Labyrinthe"}},
			{Prompt: "Allié ?", Suggestions: []string{"Meilleure amie", "Professeur", "Écureuil"}},
		},
		models.ActivitySkit: {
			{Prompt: "Personnages ?", Suggestions: []string{"Deux amis", "Prof et élève", "Frères"}},
			{Prompt: "Lieu ?", Suggestions: []string{"Cantine", "Bus", "Gymnase"}},
			{Prompt: "Conflit ?", Suggestions: []string{"Quiproquo", "Objet perdu", "Concours raté"}},
			{Prompt: "Accessoire ?", Suggestions: []string{"Sac", "Affiche", "Téléphone"}},
			{Prompt: "Moment fort ?", Suggestions: []string{"Réplique culte", "Chute", "Impro"}},
		},
		models.ActivityPoem: {
			{Prompt: "Sujet ?", Suggestions: []string{"Pluie", "Montagne", "Amitié"}},
			{Prompt: "Émotion ?", Suggestions: []string{"Doux", "Drôle", "Mystérieux"}},
			{Prompt: "Forme ?", Suggestions: []string{"Alexandrin", "Rimes croisées", "Haïku", "Libre"}},
			{Prompt: "Strophe ?", Suggestions: []string{"Courte", "Moyenne", "Longue"}},
			{Prompt: "Dernier vers ?", Suggestions: []string{"Espoir", "Sourire", "Secret"}},
		},
		models.ActivitySong: {
			{Prompt: "Thème ?", Suggestions: []string{"Voyage", "École", "Amitié"}},
			{Prompt: "Émotion ?", Suggestions: []string{"Joie", "Nostalgie", "Courage"}},
			{Prompt: "Style ?", Suggestions: []string{"Rap", "Pop", "Jazz", "Folk"}},
			{Prompt: "Refrain ?", Suggestions: []string{"Mot répété", "Onomatopées", "Question/réponse"}},
			{Prompt: "Tempo ?", Suggestions: []string{"Lent", "Moyen", "Rapide"}},
		},
		models.ActivityFree: {
			{Prompt: "Idée libre ?", Suggestions: []string{"Dragon végétarien", "Ville sous l’eau", "Robot timide"}},
			{Prompt: "Lieu ?", Suggestions: []string{"Toit", "Forêt", "Plage"}},
			{Prompt: "Objet ?", Suggestions: []string{"Carnet", "Boussole", "Graine d’étoile"}},
			{Prompt: "Allié ?", Suggestions: []string{"Voisin", "Chat", "Caméraman"}},
			{Prompt: "Obstacle ?", Suggestions: []string{"Panne", "Temps limité", "Promesse"}},
		},
	},
	models.LangEN: {
		models.ActivityStory: {
			{Prompt: "Hero / Heroine?", Suggestions: []string{"Curious girl", "Inventor boy", "Talking cat"}},
			{Prompt: "Place?", Suggestions: []string{"Schoolyard", "Magic forest", "School bus"}},
			{Prompt: "Goal?", Suggestions: []string{"Find a treasure", "Help a friend", "Win a contest"}},
			{Prompt: "Obstacle?", Suggestions: []string{"Storm", "Jealous rival", "Maze"}},
			{Prompt: "Ally?", Suggestions: []string{"Best friend", "Teacher", "Squirrel"}},
		},
		models.ActivitySkit: {
			{Prompt: "Characters?", Suggestions: []string{"Two friends", "Teacher and pupil", "Brothers"}},
			{Prompt: "Place?", Suggestions: []string{"Canteen", "Bus", "Gym"}},
			{Prompt: "Conflict?", Suggestions: []string{"Mix-up", "Lost object", "Failed contest"}},
			{Prompt: "Prop?", Suggestions: []string{"Bag", "Poster", "Phone"}},
			{Prompt: "Highlight?", Suggestions: []string{"Famous line", "Fall", "Improv"}},
		},
		models.ActivityPoem: {
			{Prompt: "Subject?", Suggestions: []string{"Rain", "Mountain", "Friendship"}},
			{Prompt: "Emotion?", Suggestions: []string{"Gentle", "Funny", "Mysterious"}},
			{Prompt: "Form?", Suggestions: []string{"Couplets", "Alternate rhymes", "Haiku", "Free verse"}},
			{Prompt: "Stanza?", Suggestions: []string{"Short", "Medium", "Long"}},
			{Prompt: "Last line?", Suggestions: []string{"Hope", "Smile", "Secret"}},
		},
		models.ActivitySong: {
			{Prompt: "Theme?", Suggestions: []string{"Travel", "School", "Friendship"}},
			{Prompt: "Emotion?", Suggestions: []string{"Joy", "Nostalgia", "Courage"}},
			{Prompt: "Style?", Suggestions: []string{"Rap", "Pop", "Jazz", "Folk"}},
			{Prompt: "Chorus?", Suggestions: []string{"Repeated word", "Onomatopoeia", "Call and response"}},
			{Prompt: "Tempo?", Suggestions: []string{"Slow", "Medium", "Fast"}},
		},
		models.ActivityFree: {
			{Prompt: "Free idea?", Suggestions: []string{"Vegetarian dragon", "Underwater city", "Shy robot"}},
			{Prompt: "Place?", Suggestions: []string{"Rooftop", "Forest", "Beach"}},
			{Prompt: "Object?", Suggestions: []string{"Notebook", "Compass", "Star seed"}},
			{Prompt: "Ally?", Suggestions: []string{"Neighbour", "Cat", "Cameraman"}},
			{Prompt: "Obstacle?", Suggestions: []string{"Breakdown", "Time limit", "Promise"}},
		},
	},
}
